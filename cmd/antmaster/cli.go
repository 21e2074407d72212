package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/catalog"
	"github.com/fwojciec/antmaster/config"
	"github.com/fwojciec/antmaster/enrich"
	amgin "github.com/fwojciec/antmaster/gin"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   *config.Config
	Species  antmaster.SpeciesService
	Asker    antmaster.Asker
	Server   *amgin.Server
	Importer *catalog.Importer
	Enricher *enrich.Enricher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `short:"C" default:"antmaster.toml" type:"path" help:"Configuration file (optional)"`
	EnvFile  string `name:"env-file" default:".env" type:"path" help:"Environment file (optional)"`
	DB       string `help:"SQLite database path (overrides config)"`
	LogLevel string `name:"log-level" help:"Log level: debug, info, warn, error (overrides config)"`

	Serve  ServeCmd  `cmd:"" help:"Serve the MCP websocket and HTTP API"`
	Ask    AskCmd    `cmd:"" help:"Ask the ant expert a question"`
	Import ImportCmd `cmd:"" help:"Import species from a CSV file"`
	List   ListCmd   `cmd:"" help:"List cataloged species"`
	Enrich EnrichCmd `cmd:"" help:"Fetch descriptions and images from species info pages"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides config)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question, in Spanish"`
	Species  string `short:"s" help:"Species the question is about"`
	Local    bool   `short:"l" help:"Answer in-process instead of asking a running server"`
	URL      string `default:"ws://localhost:8080/mcp" help:"MCP websocket URL of a running server"`
	JSON     bool   `name:"json" help:"Print the raw answer as JSON"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File      string `arg:"" type:"existingfile" help:"CSV file with a scientific_name column"`
	Separator string `default:"," help:"Field separator"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Genus string `short:"g" help:"Only species of this genus"`
	Limit int    `short:"n" help:"Maximum number of species"`
}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct {
	Force       bool    `short:"f" help:"Refetch species that already have a description"`
	Limit       int     `short:"n" help:"Maximum number of species to process"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent fetch limit"`
	Rate        float64 `default:"1" help:"Requests per second per wiki host"`
	CountTokens bool    `name:"count-tokens" help:"Report description size in Gemini tokens"`
}
