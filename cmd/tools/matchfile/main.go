// Command matchfile runs the product matcher over a batch request stored in a
// JSON file and prints the result, without starting the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-b2b/internal/common"
	"github.com/noah-isme/backend-b2b/internal/matching"
	"github.com/noah-isme/backend-b2b/internal/obs"
)

func main() {
	_ = godotenv.Load()

	in := flag.String("in", "-", "batch request JSON file, - for stdin")
	summaryOnly := flag.Bool("summary", false, "print only the batch summary")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "warn"), "log level, defaults to $LOG_LEVEL")
	flag.Parse()

	logger := obs.NewLogger(envOr("LOG_FORMAT", "console"), *logLevel, os.Stderr)

	req, err := readRequest(*in)
	if err != nil {
		logger.Fatal().Err(err).Str("in", *in).Msg("read batch request")
	}
	if err := common.NewValidator().Struct(req); err != nil {
		logger.Fatal().Str("reason", common.ValidationMessage(err)).Msg("invalid batch request")
	}

	matcher := matching.NewMatcher(matching.Options{Logger: &logger})
	out, err := matcher.MatchBatch(context.Background(), req)
	if err != nil {
		logger.Fatal().Err(err).Msg("match batch")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	var v any = out
	if *summaryOnly {
		v = out.Summary
	}
	if err := enc.Encode(v); err != nil {
		logger.Fatal().Err(err).Msg("write result")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readRequest(path string) (matching.BatchRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return matching.BatchRequest{}, err
		}
		defer f.Close()
		r = f
	}
	var req matching.BatchRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return matching.BatchRequest{}, fmt.Errorf("decode: %w", err)
	}
	return req, nil
}
