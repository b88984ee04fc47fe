package game

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/ncruces/zenity"
)

// pickResult is the outcome of one file dialog.
type pickResult struct {
	target string // slot the file is for, e.g. "sound:2" or "track:0"
	path   string
	err    error
}

// Picker runs native file dialogs off the game loop. At most one dialog is
// open at a time; results are collected with Poll from Update.
type Picker struct {
	selectFile func(title string, filter zenity.FileFilter) (string, error)
	results    chan pickResult
	busy       atomic.Bool
}

func NewPicker() *Picker {
	return &Picker{
		selectFile: func(title string, filter zenity.FileFilter) (string, error) {
			return zenity.SelectFile(zenity.Title(title), zenity.FileFilters{filter})
		},
		results: make(chan pickResult, 1),
	}
}

// Open starts a dialog for target unless one is already showing.
func (p *Picker) Open(target, title, filterName string, patterns []string) bool {
	if !p.busy.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer p.busy.Store(false)
		path, err := p.selectFile(title, zenity.FileFilter{Name: filterName, Patterns: patterns})
		if errors.Is(err, zenity.ErrCanceled) {
			slog.Debug("file dialog canceled", "target", target)
			return
		}
		p.results <- pickResult{target: target, path: path, err: err}
	}()
	return true
}

// Poll returns a finished dialog result if there is one.
func (p *Picker) Poll() (pickResult, bool) {
	select {
	case r := <-p.results:
		return r, true
	default:
		return pickResult{}, false
	}
}
