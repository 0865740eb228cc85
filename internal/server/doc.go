// Package server implements the MCP (Model Context Protocol) server for
// automatic page border cropping.
//
// This package provides a JSON-RPC 2.0 server that exposes the autocrop
// transform and a few supporting inspection tools through the MCP protocol,
// so that an assistant can check, preview and apply border crops on scanned
// pages.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Log output goes to stderr so it never interleaves with responses.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Inspection:
//   - image_sample_color: Get color at pixel
//   - image_crop: Extract an explicit rectangular region
//
// Automatic Border Crop:
//   - image_detect_borders: Report edge backgrounds, content boundaries and crop rectangle
//   - image_autocrop: Crop one image, optionally writing the result to disk
//   - image_autocrop_preview: Render the detected crop over the page
//   - image_autocrop_batch: Crop files and directories on a worker pool
//
// The autocrop tools accept an optional "config" object whose fields
// (scan_steps, pixel_count, filled_ratio_limit, similarity_threshold,
// margin) override the defaults individually.
//
// # Image Caching
//
// Images read by the inspection and preview tools are decoded once and cached
// by path for the lifetime of the process. Files written by image_autocrop and
// image_autocrop_batch are evicted from the cache so later reads see the new
// content.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
