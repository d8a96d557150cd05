// Package poller periodically samples full orderbooks over REST for
// every tracked market. Markets are swept sequentially with a small
// delay between requests so the poller stays within API quotas even
// when the tracked set is large.
package poller
