// Package events provides the in-process error event stream.
//
// The client reports failures twice: once to the caller of the failing
// operation, and once on this bus for passive observers (logging,
// dashboards, reconnect logic). Subscriptions are cheap and carry no
// buffering; a slow handler slows the publisher.
package events
