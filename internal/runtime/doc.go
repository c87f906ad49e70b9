/*
Package runtime provides the core client infrastructure for schemarpc.

# Architecture Overview

The runtime package implements a schema-driven RPC client. A generation
pass turns command descriptors from a schema catalog into callable
bindings, and a correlator matches request frames to reply frames by a
monotonically increasing call id.

# Package Structure

The runtime package is organized into the following components:

## Core Client (client.go)

The Client struct is the central orchestrator that wires together:
  - The connection built from the backend registry
  - The call correlator
  - The generated binding table and validator registry
  - The call middleware chain
  - HTTP servers for metrics and WebUI

## Middleware (middleware.go)

The middleware system provides composable call processing stages:
  - LogCalls: Debug logging of dispatched commands
  - Tracer: OpenTelemetry distributed tracing
  - Metrics: Prometheus metrics collection

## WebUI (webui.go)

HTTP API for introspecting the generated command bindings.

# Sub-packages

  - binding/: Generation of callable bindings from command descriptors
  - config/: Client configuration with validation
  - correlate/: Request/reply correlation by call id
  - errors/: Sentinel errors and error types
  - ids/: ULID generation for transport message IDs
  - jsoncodec/: JSON marshaling utilities
  - logging/: Logger interface and adapters
  - metadata/: Transport message metadata utilities
  - metrics/: Prometheus collectors for the call path
  - names/: Mapping between protocol and Go-internal naming
  - schema/: Catalog interfaces and descriptor types
  - validate/: Shape validators generated from schema types

# Usage Example

	cfg := &schemarpc.Config{
		ConnectionKind: "nats",
		NATSURL:        "nats://localhost:4222",
		MetricsEnabled: true,
		MetricsPort:    9090,
	}

	client := schemarpc.NewClient(cfg, logger, ctx, schemarpc.ClientDependencies{
		Catalog: catalog,
	})

	navigate, _ := client.Command("Page.navigate")
	result, err := navigate.CallParams(ctx, schemarpc.Params{"url": "https://example.test"})
*/
package runtime
