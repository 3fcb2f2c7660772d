// Package notifier delivers rendered alerts to a Telegram chat.
//
// Each Send is exactly one sendMessage call bounded by a timeout. There are
// no retries: whether a failed delivery should be tried again is the
// caller's decision. A token bucket keeps bursts under Telegram's per-chat
// flood limits.
package notifier
