// Package lightermeet provides the chat-translation core for the lightermeet
// video-conferencing app: a cache-backed translation service over a hosted
// completion model, language detection, and room-wide broadcast fan-out.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/nbbb26/lightermeet"
//	    "github.com/nbbb26/lightermeet/cache"
//	    "github.com/nbbb26/lightermeet/provider"
//	)
//
//	func main() {
//	    p, err := provider.NewOpenAI(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    t := lightermeet.New(p,
//	        lightermeet.WithCache(cache.NewLRU(1000, 30*time.Minute)),
//	    )
//
//	    res, err := t.Translate(context.Background(), "Hello everyone!", "es", "")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.TranslatedText) // ¡Hola a todos!
//	}
//
// Per-message coordination for a live chat stream (stable message identity,
// request cancellation, render-pass formatting) lives in the chat subpackage.
package lightermeet
