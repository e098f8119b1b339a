// Package dice is the only source of randomness in battle resolution. Live
// battles roll against crypto/rand; replays and simulations roll against a
// seeded PCG so the same seed yields the same battle.
package dice
