package main

import (
	"context"
	"fmt"
	"sort"
	"unicode"

	"github.com/mattn/go-tty"

	"github.com/roadlab/lanescan/internal/logger"
)

// scanKeys handles interactive keys until ctx ends. When no terminal is
// attached (piped output, CI) it logs and gives up.
func scanKeys(ctx context.Context, cancel context.CancelFunc) {
	t, err := tty.Open()
	if err != nil {
		logger.Entry(ctx).WithError(err).Debug("no tty, keyboard controls disabled")
		return
	}
	defer t.Close()

	for {
		if ctx.Err() != nil {
			return
		}
		r, err := t.ReadRune()
		if err != nil {
			logger.Entry(ctx).WithError(err).Debug("tty read")
			return
		}
		h, ok := keyMap[unicode.ToLower(r)]
		if !ok {
			continue
		}
		h.cb(ctx, cancel)
	}
}

type keyHandler struct {
	cb   func(context.Context, context.CancelFunc)
	desc string
}

var keyMap map[rune]keyHandler

func init() {
	keyMap = map[rune]keyHandler{
		'q': {
			cb: func(ctx context.Context, cancel context.CancelFunc) {
				logger.Entry(ctx).Info("quit requested")
				cancel()
			},
			desc: "Quit",
		},
		'?': {
			desc: "Help",
			cb: func(context.Context, context.CancelFunc) {
				keys := make([]rune, 0, len(keyMap))
				for k := range keyMap {
					keys = append(keys, k)
				}
				sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
				for _, k := range keys {
					fmt.Printf("%s\t%s\n", string(k), keyMap[k].desc)
				}
			},
		},
	}
}
