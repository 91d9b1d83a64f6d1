// Package plugin provides an extension registry for custom crawlers,
// parsers, notifiers, and storage backends.
//
// Extensions register a Factory under a (Kind, name) pair at program
// startup and are instantiated by name from configuration. Registration
// is explicit; there is no runtime discovery.
//
//	plugin.DefaultRegistry.Register(plugin.KindCrawler, "rss",
//	    func(cfg map[string]any) (any, error) { return newRSSCrawler(cfg) })
//
//	c, err := plugin.Resolve[Crawler](plugin.DefaultRegistry,
//	    plugin.KindCrawler, "rss", cfg)
package plugin
