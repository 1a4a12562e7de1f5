// Package webhook provides the search transport backed by the n8n search
// webhook, plus a resilience policy that can wrap any transport.
//
// The webhook contract is a single POST with body {"query": "..."}
// answered by the aggregated response of all integrated services.
package webhook
