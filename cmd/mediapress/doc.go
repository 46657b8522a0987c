// Command mediapress runs the media optimization pipeline daemon and its
// operational CLI: run (daemon), submit (one-shot processing), status
// (reporting), and config (sample generation and inspection).
package main
