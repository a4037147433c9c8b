// Package pkg provides the core libraries for seamcarve content-aware image
// resizing.
//
// # Overview
//
// seamcarve changes an image's width and height by removing or duplicating
// seams: connected paths of pixels, one per row (or column), chosen to cross
// the least visually important parts of the picture. The pkg directory is
// organized into these areas:
//
//  1. [carve] - Domain logic (energy, cost matrix, seams, resize driver)
//  2. [imageio] - Decoding and encoding between files and pixel grids
//  3. [pipeline] - Orchestration (decode → carve → encode) with caching
//  4. [cache] - Result caching (file, Redis, MongoDB)
//  5. [observability] - Hooks for logging pipeline, cache and HTTP events
//  6. [errors] - Coded errors shared by the CLI and the HTTP service
//
// # Architecture
//
// The typical data flow through seamcarve:
//
//	Image bytes (PNG, JPEG, GIF, BMP, TIFF, WebP)
//	         ↓
//	    [imageio] package (decode into a carve.Grid)
//	         ↓
//	    [carve] package (remove or insert seams per axis)
//	         ↓
//	    [imageio] package (encode PNG, BMP or TIFF)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/seamcarve/pkg/carve"
//	    "github.com/matzehuels/seamcarve/pkg/imageio"
//	)
//
//	g, _, _ := imageio.Load("in.jpg")
//	out, _ := carve.Resize(context.Background(), g, 640, 480)
//	_ = imageio.Save("out.png", out, imageio.FormatPNG)
//
// With caching and hooks, use [pipeline.Runner] instead.
package pkg
