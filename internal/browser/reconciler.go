package browser

import (
	"path/filepath"

	"imagesort/internal/errors"
	"imagesort/internal/log"
	"imagesort/internal/watch"
	"imagesort/pkg/types"
)

// switchDirectory releases the current watch, subscribes to dir, then
// enumerates it. Subscribing first means no change between the enumeration
// and the first event is lost; replays are harmless because reconcile is
// idempotent. On enumeration failure the previous listing stays in place and
// nothing is watched.
func (b *Browser) switchDirectory(dir string) error {
	dir = absolute(dir)
	b.release()
	gen := b.generation

	if !b.port.DirectoryExists(dir) {
		return errors.NewDirectoryUnavailableError(dir, nil)
	}

	var sub watch.Subscription
	if b.source != nil {
		s, err := b.source.Subscribe(dir)
		if err != nil {
			b.report(errors.Wrapf(err, "failed to watch %s", dir))
		} else {
			sub = s
		}
	}

	paths, err := b.port.ListFiles(dir)
	if err != nil {
		if sub != nil {
			b.closeSubscription(sub)
		}
		log.LogWithError(err).With(log.F("directory", dir)).Warn("Failed to enumerate directory")
		return errors.NewDirectoryUnavailableError(dir, err)
	}

	b.listing.Reset(dir, paths)
	b.folder = dir
	if sub != nil {
		b.sub = sub
		b.pumps.Add(1)
		go b.pump(sub, gen)
	}

	log.LogWithFields(log.F("directory", dir), log.F("images", b.listing.Len())).Info("Switched directory")
	b.view.Recompute(b.listing.Items())
	return nil
}

// release closes the current subscription and invalidates its events.
func (b *Browser) release() {
	b.generation++
	if b.sub != nil {
		b.closeSubscription(b.sub)
		b.sub = nil
	}
}

func (b *Browser) closeSubscription(sub watch.Subscription) {
	if err := sub.Close(); err != nil {
		log.LogWithError(err).With(log.F("directory", sub.Dir())).Warn("Failed to release watch")
	}
}

// pump forwards one subscription's events and errors onto the loop.
func (b *Browser) pump(sub watch.Subscription, gen uint64) {
	defer b.pumps.Done()
	events, errs := sub.Events(), sub.Errors()

	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !b.post(func() { b.applyEvent(gen, ev) }) {
				return
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if !b.post(func() { b.watchFailed(gen, err) }) {
				return
			}
		case <-b.quit:
			return
		}
	}
}

func (b *Browser) applyEvent(gen uint64, ev types.FileEvent) {
	if gen != b.generation {
		log.LogWithFields(log.F("event", ev.String())).Debug("Dropping event from released watch")
		return
	}
	b.apply(ev)
}

func (b *Browser) watchFailed(gen uint64, err error) {
	if gen != b.generation {
		return
	}
	b.report(err)
}

// report logs a watch failure and forwards it to Errors without blocking.
func (b *Browser) report(err error) {
	log.LogWithError(err).With(log.F("directory", b.folder)).Warn("Watch error")
	select {
	case b.errs <- err:
	default:
		log.Debug("Error buffer full, dropping watch error")
	}
}

// apply reconciles one event with the listing and recomputes the view when
// the listing changed.
func (b *Browser) apply(ev types.FileEvent) {
	if b.reconcile(ev) {
		b.view.Recompute(b.listing.Items())
	}
}

// reconcile applies ev and reports whether the listing changed. Applying the
// same event twice is the same as applying it once.
func (b *Browser) reconcile(ev types.FileEvent) bool {
	switch ev.Kind {
	case types.Created:
		return b.insertImage(ev.Path)
	case types.Deleted:
		return b.removeImage(ev.Path)
	case types.Renamed:
		if b.removeImage(ev.OldPath) {
			b.insertImage(ev.Path)
			return true
		}
		return b.insertImage(ev.Path)
	default:
		return false
	}
}

// insertImage adds path when it is a supported image in the current folder.
func (b *Browser) insertImage(path string) bool {
	return b.listing.Add(path)
}

// removeImage drops path if it is listed.
func (b *Browser) removeImage(path string) bool {
	return b.listing.Remove(path)
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
