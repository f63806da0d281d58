// Package sloghooks reports redisval.Store events to a log/slog logger.
//
//	hooks := sloghooks.New(slog.Default(), sloghooks.Options{BracketFallbackEvery: 100})
//	store, _ := redisval.NewStore[User](redisval.Options[User]{Client: rdb, Hooks: hooks})
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/redisval"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	BracketFallbackEvery uint64
	DecodeFailedEvery    uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	fallbackCtr atomic.Uint64
	failedCtr   atomic.Uint64
}

var _ redisval.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) BracketFallback(storageKey string) {
	if h.l == nil || !sample(h.opts.BracketFallbackEvery, &h.fallbackCtr) {
		return
	}
	h.l.Debug("redisval.bracket_fallback", "key", h.redact(storageKey))
}

func (h *Hooks) DecodeFailed(storageKey string, err error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.failedCtr) {
		return
	}
	attrs := []any{"key", h.redact(storageKey), "err", err}
	var te *redisval.TypeError
	if errors.As(err, &te) {
		attrs = append(attrs, "type", te.Type, "serializer", te.Serializer)
	}
	h.l.Warn("redisval.decode_failed", attrs...)
}
