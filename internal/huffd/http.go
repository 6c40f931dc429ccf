package huffd

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/npillmayer/huffword"
	"github.com/npillmayer/huffword/codesfile"
	"github.com/npillmayer/huffword/symtab"
)

func (app *App) initHTTP() {
	app.router = httprouter.New()
	app.router.POST("/v1/texts", app.compressText)
	app.router.GET("/v1/texts/:digest", app.serveStats)
	app.router.GET("/v1/texts/:digest/payload", app.servePayload)
	app.router.GET("/v1/texts/:digest/codes", app.serveCodes)
}

func (app *App) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tracer().Infof("%v %v", req.Method, req.URL)
	app.router.ServeHTTP(w, req)
}

type statsResponse struct {
	Digest         string  `json:"digest"`
	Created        string  `json:"created"`
	Tokens         int     `json:"tokens"`
	DistinctTokens int     `json:"distinct_tokens"`
	InputBytes     int64   `json:"input_bytes"`
	OutputBytes    int64   `json:"output_bytes"`
	PayloadBits    int64   `json:"payload_bits"`
	Ratio          float64 `json:"ratio"`
	ElapsedMS      int64   `json:"elapsed_ms"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{
		Error: msg,
	})
}

func writeStats(w http.ResponseWriter, status int, a *artifact) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(statsResponse{
		Digest:         a.digest,
		Created:        a.created.Format(time.RFC1123Z),
		Tokens:         a.tokens,
		DistinctTokens: a.distinctTokens,
		InputBytes:     a.inputBytes,
		OutputBytes:    a.outputBytes,
		PayloadBits:    a.bitLen,
		Ratio:          a.ratio,
		ElapsedMS:      a.elapsedMS,
	})
}

func (app *App) compressText(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, app.config.MaxTextBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("text exceeds the %d byte limit", app.config.MaxTextBytes))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("reading request body: %v", err))
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty text")
		return
	}

	digest := fmt.Sprintf("%x", sha256.Sum256(body))
	existing, err := app.getArtifact(digest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("artifact lookup for %v: %v", digest, err))
		return
	}
	if existing != nil {
		writeStats(w, http.StatusOK, existing)
		return
	}

	result, err := huffword.Compress(bytes.NewReader(body), app.config.TableCap)
	if err != nil {
		if errors.Is(err, symtab.ErrTableFull) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("text exceeds the census capacity: %v", err))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("compressing: %v", err))
		return
	}
	var blob bytes.Buffer
	if _, err := result.Archive.WriteTo(&blob); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("serializing archive: %v", err))
		return
	}

	a := &artifact{
		digest:         digest,
		created:        time.Now(),
		tokens:         result.Tokens,
		distinctTokens: result.Distinct,
		inputBytes:     result.InputBytes,
		outputBytes:    result.OutputBytes(),
		bitLen:         result.Archive.BitLen,
		ratio:          result.Ratio(),
		elapsedMS:      result.Elapsed.Milliseconds(),
		archive:        blob.Bytes(),
	}
	stored, err := app.saveArtifact(a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("storing artifact %v: %v", digest, err))
		return
	}
	if !stored {
		// a concurrent request with the same text won the insert,
		// answer with its artifact
		winner, err := app.getArtifact(digest)
		if err != nil || winner == nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("artifact lookup for %v: %v", digest, err))
			return
		}
		writeStats(w, http.StatusOK, winner)
		return
	}
	writeStats(w, http.StatusCreated, a)
}

func (app *App) serveStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := app.lookup(w, ps)
	if a == nil || err != nil {
		return
	}
	writeStats(w, http.StatusOK, a)
}

func (app *App) servePayload(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := app.lookup(w, ps)
	if a == nil || err != nil {
		return
	}
	ar, err := unpackArchive(a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("unpacking artifact %v: %v", a.digest, err))
		return
	}
	w.Header().Set("content-type", "application/octet-stream")
	w.Write(ar.Payload)
}

func (app *App) serveCodes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := app.lookup(w, ps)
	if a == nil || err != nil {
		return
	}
	ar, err := unpackArchive(a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("unpacking artifact %v: %v", a.digest, err))
		return
	}
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	if err := codesfile.WriteListing(w, ar.Codes); err != nil {
		tracer().Errorf("writing codes listing for %v: %v", a.digest, err)
	}
}

// lookup resolves the :digest route parameter, writing the error response
// itself when the artifact cannot be served.
func (app *App) lookup(w http.ResponseWriter, ps httprouter.Params) (*artifact, error) {
	digest := ps.ByName("digest")
	a, err := app.getArtifact(digest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("artifact lookup for %v: %v", digest, err))
		return nil, err
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "artifact not found")
		return nil, nil
	}
	return a, nil
}

func unpackArchive(a *artifact) (*huffword.Archive, error) {
	var ar huffword.Archive
	if _, err := ar.ReadFrom(bytes.NewReader(a.archive)); err != nil {
		return nil, err
	}
	return &ar, nil
}
