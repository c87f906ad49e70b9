package runtime

import (
	"fmt"
	"net/http"
	"strings"

	jsoncodecpkg "github.com/drblury/schemarpc/internal/runtime/jsoncodec"
	loggingpkg "github.com/drblury/schemarpc/internal/runtime/logging"
)

// CommandInfo is the JSON shape served by the introspection API.
type CommandInfo struct {
	Method      string      `json:"method"`
	Domain      string      `json:"domain"`
	Command     string      `json:"command"`
	Description string      `json:"description,omitempty"`
	Parameters  []ParamInfo `json:"parameters"`
}

// ParamInfo describes one parameter of a bound command. Name is the
// Go-internal form, Wire the protocol form sent on the wire.
type ParamInfo struct {
	Name     string `json:"name"`
	Wire     string `json:"wire"`
	Optional bool   `json:"optional"`
}

// StartWebUIServer exposes /api/commands on the configured port. It is a
// no-op unless the web UI is enabled.
func (c *Client) StartWebUIServer() {
	if c.Conf == nil || !c.Conf.WebUIEnabled {
		return
	}

	port := c.Conf.WebUIPort
	if port == 0 {
		port = 8081
	}

	mux := http.NewServeMux()
	mux.Handle("/api/commands", http.HandlerFunc(c.handleGetCommands))

	addr := fmt.Sprintf(":%d", port)
	c.Logger.Info("Starting web UI server", loggingpkg.LogFields{"address": addr})
	go func() {
		if err := serveHTTP(addr, mux); err != nil {
			c.Logger.Error("Failed to start web UI server", err, loggingpkg.LogFields{"address": addr})
		}
	}()
}

func (c *Client) handleGetCommands(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Set CORS headers based on configuration
	if c.Conf != nil && len(c.Conf.WebUICORSAllowedOrigins) > 0 {
		origin := r.Header.Get("Origin")
		allowedOrigin := c.getAllowedCORSOrigin(origin)
		if allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
	}

	// Handle preflight requests
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := jsoncodecpkg.Encode(w, c.commandInfos()); err != nil {
		c.Logger.Error("Failed to encode commands", err, nil)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (c *Client) commandInfos() []CommandInfo {
	methods := c.bindings.Methods()
	infos := make([]CommandInfo, 0, len(methods))
	for _, method := range methods {
		b, ok := c.bindings.Lookup(method)
		if !ok {
			continue
		}

		params := b.Parameters()
		paramInfos := make([]ParamInfo, 0, len(params))
		for _, p := range params {
			paramInfos = append(paramInfos, ParamInfo{
				Name:     p.Internal,
				Wire:     p.External,
				Optional: p.Optional,
			})
		}

		infos = append(infos, CommandInfo{
			Method:      b.Method(),
			Domain:      b.Domain(),
			Command:     b.Command(),
			Description: b.Description(),
			Parameters:  paramInfos,
		})
	}
	return infos
}

// getAllowedCORSOrigin checks if the request origin is allowed and returns the appropriate
// Access-Control-Allow-Origin value.
func (c *Client) getAllowedCORSOrigin(requestOrigin string) string {
	if c.Conf == nil {
		return ""
	}
	for _, allowed := range c.Conf.WebUICORSAllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, requestOrigin) {
			return requestOrigin
		}
	}
	return ""
}
