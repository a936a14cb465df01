package lightermeet

import (
	"context"
	"sync"
)

// TranslateForRoom translates text into every target language other than the
// source, in parallel. The source language is taken from sourceLang when
// given, otherwise detected once. The result always maps the source language
// to the original text.
//
// The call is all-or-nothing: any single failed translation fails the whole
// fan-out and cancels its siblings. Callers must deduplicate and cap
// targetLangs before calling; no admission control happens here.
func (t *Translator) TranslateForRoom(ctx context.Context, text string, targetLangs []string, sourceLang string) (map[string]string, error) {
	src := sourceLang
	if src == "" {
		src = t.DetectLanguage(ctx, text)
	}

	results := map[string]string{src: text}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		lang string
		text string
		err  error
	}

	outcomes := make(chan outcome, len(targetLangs))
	var wg sync.WaitGroup

	for _, lang := range targetLangs {
		if lang == src {
			continue
		}

		wg.Add(1)
		go func(lang string) {
			defer wg.Done()
			res, err := t.Translate(ctx, text, lang, src)
			if err != nil {
				cancel()
				outcomes <- outcome{lang: lang, err: err}
				return
			}
			outcomes <- outcome{lang: lang, text: res.TranslatedText}
		}(lang)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var firstErr error
	for o := range outcomes {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		results[o.lang] = o.text
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
