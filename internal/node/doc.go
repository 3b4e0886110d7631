// Package node implements the Node Event Loop: the central coordinator that
// owns one node identity, one DHT adapter, and one user directory, and
// drives both operator commands and DHT completion events through a single
// cooperative select loop.
//
// There is no module-level mutable state; every field the loop touches
// lives on a *Node value, so a test can construct two independent nodes
// side by side without interference.
package node
