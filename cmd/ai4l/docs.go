package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           ai4l API
// @version         1.0
// @description     HTTP API that generates text imitating the style of a sample under LoRA-style parameters.
//
// @contact.name   ai4l maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
