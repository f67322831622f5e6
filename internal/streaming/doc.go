// Package streaming copies file contents to HTTP responses with per-chunk
// write deadlines.
//
// The API server runs without a global WriteTimeout because POST
// /api/discover blocks for a whole discovery run. Image downloads instead get
// a deadline that is pushed forward after every chunk, so a stalled client is
// dropped while a slow but progressing one is not.
//
// Basic usage:
//
//	err := streaming.Copy(r.Context(), w, f, streaming.DefaultConfig())
//	if errors.Is(err, streaming.ErrClientGone) {
//	    return
//	}
//
// Writers that cannot set deadlines, such as httptest.ResponseRecorder, are
// copied to without one.
package streaming
