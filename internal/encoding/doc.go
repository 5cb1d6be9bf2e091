// Package encoding turns a selected frame range into an animation file.
//
// New returns a Collector/Writer pair joined by a bounded queue: the
// Collector decodes frames on the producer side and the Writer drains them in
// order, scales them onto a fixed canvas, and finalizes a GIF or MJPEG AVI
// into the supplied sink. Encode runs both halves on separate goroutines
// and joins them, surfacing the first failure as ErrEncode.
package encoding
