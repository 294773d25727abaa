// Package translate localises the messages reported by the interpreter.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	mutex   sync.RWMutex
	printer *message.Printer
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("chip8: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage overrides the host locale, ie from a command line flag.
func SetLanguage(lang string) (err error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return
	}

	mutex.Lock()
	printer = message.NewPrinter(tag)
	mutex.Unlock()

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	mutex.RLock()
	defer mutex.RUnlock()

	return printer.Sprintf(key, args...)
}
