// Command lightermeet translates chat text using a hosted language model.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nbbb26/lightermeet"
	"github.com/nbbb26/lightermeet/cache"
	"github.com/nbbb26/lightermeet/provider"
)

// maxTextLength mirrors the request-layer cap on translatable text.
const maxTextLength = 5000

// maxRoomLanguages caps the fan-out size of a room broadcast.
const maxRoomLanguages = 16

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lightermeet", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	targetLang := fs.String("lang", "", "Target language code (e.g., es, ja)")
	sourceLang := fs.String("source", "", "Source language code (default: auto-detect)")
	roomLangs := fs.String("room-langs", "", "Comma-separated target languages for a room broadcast")
	detect := fs.Bool("detect", false, "Detect the language of the text")
	listLanguages := fs.Bool("list-languages", false, "List supported languages")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	cacheSize := fs.Int("cache-size", 1000, "Maximum cached translations")
	cacheTTL := fs.Int("cache-ttl", 1800, "Cache TTL in seconds (0 to disable expiry)")
	redisURL := fs.String("redis", "", "Redis URL for a shared cache (default: in-memory)")
	rpm := fs.Int("rpm", 0, "Client-side rate limit in requests per minute (0 to disable)")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", lightermeet.Name, lightermeet.FullVersion())
		if lightermeet.GitCommit != "unknown" && lightermeet.GitCommit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", lightermeet.GitCommit)
		}
		if lightermeet.BuildDate != "unknown" && lightermeet.BuildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", lightermeet.BuildDate)
		}
		return nil
	}

	if *listLanguages {
		if *jsonOutput {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(lightermeet.LanguageNames)
		}
		for _, code := range lightermeet.SupportedLanguages() {
			fmt.Fprintf(stdout, "%s  %s\n", code, lightermeet.LanguageName(code))
		}
		return nil
	}

	if *targetLang == "" && *roomLangs == "" && !*detect {
		fs.Usage()
		return fmt.Errorf("--lang, --room-langs, or --detect is required")
	}

	// Get input text
	var text string
	if fs.NArg() > 0 {
		text = strings.TrimSpace(strings.Join(fs.Args(), " "))
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	if text == "" {
		return fmt.Errorf("no text to translate")
	}
	if len(text) > maxTextLength {
		return fmt.Errorf("text too long: %d characters (max %d)", len(text), maxTextLength)
	}

	// Create provider
	p, err := provider.NewOpenAI(provider.OpenAIConfig{
		APIKey: *apiKey,
		Model:  *model,
	})
	if err != nil {
		return err
	}

	var completions lightermeet.CompletionProvider = p
	if *rpm > 0 {
		completions = lightermeet.NewRateLimitedProvider(completions, lightermeet.RateLimitConfig{
			RequestsPerMinute: *rpm,
		})
	}

	// Build options
	opts := []lightermeet.Option{}

	switch {
	case *redisURL != "":
		rc, err := cache.NewRedis(cache.RedisConfig{
			URL: *redisURL,
			TTL: time.Duration(*cacheTTL) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rc.Close()
		opts = append(opts, lightermeet.WithCache(rc))
	case *cacheSize > 0:
		opts = append(opts, lightermeet.WithCache(
			cache.NewLRU(*cacheSize, time.Duration(*cacheTTL)*time.Second)))
	}

	translator := lightermeet.New(completions, opts...)
	ctx := context.Background()

	// Detect mode
	if *detect {
		code := translator.DetectLanguage(ctx, text)
		if *jsonOutput {
			return json.NewEncoder(stdout).Encode(map[string]string{
				"language": code,
				"name":     lightermeet.LanguageName(code),
			})
		}
		fmt.Fprintf(stdout, "%s (%s)\n", code, lightermeet.LanguageName(code))
		return nil
	}

	// Room broadcast mode
	if *roomLangs != "" {
		langs, err := parseRoomLanguages(*roomLangs)
		if err != nil {
			return err
		}

		if !*quiet {
			fmt.Fprintf(stderr, "Translating for %d languages...\n", len(langs))
		}

		start := time.Now()
		results, err := translator.TranslateForRoom(ctx, text, langs, *sourceLang)
		if err != nil {
			return fmt.Errorf("room translation failed: %w", err)
		}

		if *jsonOutput {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
		} else {
			for _, code := range lightermeet.SupportedLanguages() {
				if translated, ok := results[code]; ok {
					fmt.Fprintf(stdout, "%s: %s\n", code, translated)
				}
			}
		}

		if !*quiet {
			fmt.Fprintf(stderr, "Done in %v\n", time.Since(start).Round(time.Millisecond))
		}
		return nil
	}

	// Single translation mode
	if !lightermeet.IsSupported(*targetLang) {
		return &lightermeet.LanguageError{Code: *targetLang}
	}

	start := time.Now()
	result, err := translator.Translate(ctx, text, *targetLang, *sourceLang)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if *jsonOutput {
		out := struct {
			OriginalText   string `json:"original_text"`
			TranslatedText string `json:"translated_text"`
			TargetLanguage string `json:"target_language"`
			SourceLanguage string `json:"source_language,omitempty"`
			Cached         bool   `json:"cached"`
		}{
			OriginalText:   text,
			TranslatedText: result.TranslatedText,
			TargetLanguage: *targetLang,
			SourceLanguage: result.DetectedLanguage,
			Cached:         result.Cached,
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(stdout, result.TranslatedText)

	if !*quiet {
		fmt.Fprintf(stderr, "Done in %v", time.Since(start).Round(time.Millisecond))
		if result.Cached {
			fmt.Fprint(stderr, " (cached)")
		}
		fmt.Fprintln(stderr)
	}

	return nil
}

// parseRoomLanguages validates, deduplicates, and caps a comma-separated
// list of room target languages.
func parseRoomLanguages(s string) ([]string, error) {
	seen := make(map[string]bool)
	var langs []string

	for _, code := range strings.Split(s, ",") {
		code = strings.TrimSpace(code)
		if code == "" || seen[code] {
			continue
		}
		if !lightermeet.IsSupported(code) {
			return nil, &lightermeet.LanguageError{Code: code}
		}
		seen[code] = true
		langs = append(langs, code)
	}

	if len(langs) == 0 {
		return nil, fmt.Errorf("no valid target languages provided")
	}
	if len(langs) > maxRoomLanguages {
		return nil, fmt.Errorf("too many target languages: %d (max %d)", len(langs), maxRoomLanguages)
	}

	return langs, nil
}
