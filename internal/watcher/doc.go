// Package watcher notices packages being installed, upgraded or removed
// behind brewdesk's back.
//
// It watches <prefix>/Cellar and <prefix>/Caskroom plus each package
// directory directly beneath them with fsnotify. Bursts of filesystem events
// (a single `brew upgrade` touches thousands of files) are coalesced into one
// Change per quiet period, naming the packages whose directories moved.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//		Dirs:     watcher.DirsForPrefix("/opt/homebrew"),
//		Debounce: 500 * time.Millisecond,
//	}, logger)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//
//	w.Start(ctx)
//	for change := range w.Events() {
//		for _, name := range change.Packages {
//			client.Invalidate(name)
//		}
//	}
package watcher
