package main

// General API documentation for swaggo. Run the generator to produce docs
// and build with -tags=swagger to serve them.
//
// @title           queryd API
// @version         1.0
// @description     HTTP API for converting free-text real-estate queries into structured JSON filters.
//
// @BasePath  /
//
// @schemes http
