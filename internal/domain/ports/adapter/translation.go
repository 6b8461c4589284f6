package adapter

import "context"

// TranslationAdapter is the port for the external translation service.
type TranslationAdapter interface {
	// Translate detects the source language and returns the text rendered in
	// every configured target language except the source one, keyed by
	// language code.
	Translate(ctx context.Context, text string) (sourceLang string, byLang map[string]string, err error)
}
