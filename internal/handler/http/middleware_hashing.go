package http

import (
	"bytes"
	"crypto/hmac"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/MKhiriev/go-record-sync/internal/app"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/utils"
)

// hashHeader carries the hex-encoded HMAC-SHA256 signature of the exact
// request body bytes. Clients that have a hash key configured set it on
// every body-carrying request.
const hashHeader = "HashSHA256"

// verifyBodyHash is an HTTP middleware that checks the transport integrity
// signature of the request body.
//
// When the HashSHA256 header is present, the middleware reads the full body,
// recomputes the keyed HMAC-SHA256 over the raw bytes via [utils.Hash], and
// compares the two in constant time. A mismatch rejects the request with
// HTTP 400 before it reaches the handler. Requests without the header pass
// through untouched, so clients without a configured hash key keep working.
//
// The body is restored after verification so downstream handlers can decode
// it as usual.
func (h *Handler) verifyBodyHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		requestHash := r.Header.Get(hashHeader)
		if requestHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.verifyBodyHash").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		computedHash := hex.EncodeToString(utils.Hash(body))
		if !hmac.Equal([]byte(computedHash), []byte(requestHash)) {
			log.Error().Str("func", "*Handler.verifyBodyHash").
				Str("hash from request", requestHash).
				Str("hashed body", computedHash).
				Msg("hashes are not equal")
			http.Error(w, app.MsgHashMismatch, http.StatusBadRequest)
			return
		}

		log.Debug().Str("func", "*Handler.verifyBodyHash").Msg("hashes are equal")

		next.ServeHTTP(w, r)
	})
}
