// Package translation turns a batch of source strings into translated
// strings through a chat-completion API. A batch is sent as one JSON array
// inside one prompt; the reply is parsed back into an ordered list. The
// package retries failed attempts with a fixed delay and, when every
// attempt fails, degrades the batch to sentinel strings so callers always
// receive exactly one output per input.
package translation
