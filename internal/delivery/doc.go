// Package delivery groups the optional lead sinks: a Firebase Realtime
// Database mirror, an S3 archive and a Telegram staff notifier. Each
// subpackage implements lead.Sink.
package delivery
