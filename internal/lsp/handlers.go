package lsp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/llm-ls/llm-ls/internal/backend"
	"github.com/llm-ls/llm-ls/internal/document"
	"github.com/llm-ls/llm-ls/internal/errkind"
	"github.com/llm-ls/llm-ls/internal/httpclient"
	"github.com/llm-ls/llm-ls/internal/prompt"
	"github.com/llm-ls/llm-ls/internal/util"
)

// The three custom JSON-RPC methods spec.md §6 registers alongside the
// standard LSP lifecycle/sync methods.
const (
	getCompletionsMethod   = "llm-ls/getCompletions"
	acceptCompletionMethod = "llm-ls/acceptCompletion"
	rejectCompletionMethod = "llm-ls/rejectCompletion"
)

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if s.log != nil {
		s.log.Infow("initialize request received", "root_uri", params.RootURI)
	}

	s.workspaceMu.Lock()
	switch {
	case params.WorkspaceFolders != nil:
		for _, folder := range params.WorkspaceFolders {
			s.workspaceFolders = append(s.workspaceFolders, folder.URI)
		}
	case params.RootURI != nil:
		s.workspaceFolders = append(s.workspaceFolders, *params.RootURI)
	}
	s.workspaceMu.Unlock()

	// glsp implements LSP 3.16, which predates the 3.17 positionEncoding
	// capability negotiation; document.NegotiateEncoding implements
	// spec.md's full algorithm but is not called here, so the
	// live handshake can only default to UTF-16 code units, matching
	// every editor's historical assumption.
	s.encoding = document.EncodingUTF16

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = protocol.TextDocumentSyncOptions{
		OpenClose: util.Ptr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: util.Ptr(false)},
	}

	version := "dev"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if s.log != nil {
		s.log.Infow("server initialized")
	}
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.shutdownCalled = true
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) exit(ctx *glsp.Context) error {
	code := 0
	if !s.shutdownCalled {
		code = 1
	}
	os.Exit(code)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	lang := document.LanguageFromID(params.TextDocument.LanguageID)

	s.documentsMu.Lock()
	defer s.documentsMu.Unlock()

	if _, exists := s.documents[uri]; !exists && len(s.documents) >= maxDocumentsPerClient {
		return errkind.Newf(errkind.IO, "document cache limit reached (%d documents open)", maxDocumentsPerClient)
	}
	s.documents[uri] = document.Open(uri, lang, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if s.log != nil {
				s.log.Errorw("panic applying document change", "panic", r, "uri", params.TextDocument.URI)
			}
			err = errkind.Newf(errkind.IO, "internal error applying change to %s", params.TextDocument.URI)
		}
	}()

	uri := string(params.TextDocument.URI)

	s.documentsMu.Lock()
	defer s.documentsMu.Unlock()

	doc, ok := s.documents[uri]
	if !ok {
		return errkind.Newf(errkind.IO, "didChange for unopened document %s", uri)
	}

	for _, raw := range params.ContentChanges {
		change, ok := toDocumentChange(raw)
		if !ok {
			continue
		}
		if err := document.ApplyChange(doc, change, s.encoding); err != nil {
			return err
		}
	}
	return nil
}

func toDocumentChange(raw any) (document.Change, bool) {
	switch c := raw.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return document.WholeDocumentChange(c.Text), true
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return document.WholeDocumentChange(c.Text), true
		}
		start := document.Position{Line: int(c.Range.Start.Line), Character: int(c.Range.Start.Character)}
		end := document.Position{Line: int(c.Range.End.Line), Character: int(c.Range.End.Character)}
		return document.RangeChange(start, end, c.Text), true
	default:
		return document.Change{}, false
	}
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.documentsMu.Lock()
	defer s.documentsMu.Unlock()

	if doc, ok := s.documents[uri]; ok {
		doc.Close()
		delete(s.documents, uri)
	}
	return nil
}

// handleCustomMethod dispatches the three custom methods dispatchHandler
// routes to it, since they fall outside the standard LSP 3.16 method set
// (spec.md §6) that protocol.Handler's own Handle switches on. handled is
// false for any other method, signaling the caller to fall back to the
// standard dispatch table.
func (s *Server) handleCustomMethod(method string, raw json.RawMessage) (result any, handled bool, err error) {
	switch method {
	case getCompletionsMethod:
		var p GetCompletionsParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, true, errkind.Wrap(errkind.SerdeJSON, err, "decode getCompletions params")
		}
		result, err = s.getCompletions(&p)
		return result, true, err

	case acceptCompletionMethod:
		var p AcceptCompletionParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, true, errkind.Wrap(errkind.SerdeJSON, err, "decode acceptCompletion params")
		}
		return nil, true, s.acceptCompletion(&p)

	case rejectCompletionMethod:
		var p RejectCompletionParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, true, errkind.Wrap(errkind.SerdeJSON, err, "decode rejectCompletion params")
		}
		return nil, true, s.rejectCompletion(&p)

	default:
		return nil, false, nil
	}
}

// getCompletions implements llm-ls/getCompletions: it snapshots the
// document under a read lock, builds the prompt, dispatches to the
// configured backend, strips stop tokens, records the shown completions
// in the ledger, and returns them. Grounded on
// teranos-QNTX/server/lsp_handler.go's TextDocumentCompletion
// panic-recovery idiom.
func (s *Server) getCompletions(params *GetCompletionsParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if s.log != nil {
				s.log.Errorw("panic in getCompletions", "panic", r)
			}
			result = nil
			err = errkind.Newf(errkind.IO, "internal error building completions")
		}
	}()

	uri := params.TextDocument.URI

	s.documentsMu.RLock()
	doc, ok := s.documents[uri]
	var rope *document.Rope
	if ok {
		rope = document.NewRope(doc.Rope.String())
	}
	s.documentsMu.RUnlock()
	if !ok {
		return nil, errkind.Newf(errkind.IO, "getCompletions for unopened document %s", uri)
	}

	var counter prompt.Counter
	if t, tokErr := s.tokenizers.Get(params.Model); tokErr == nil {
		counter = t
	}

	var promptText string
	if params.FIM.Enabled {
		promptText, err = prompt.BuildFIM(rope, params.Position.Line, params.Position.Character, params.ContextWindow, counter, prompt.FIM{
			Enabled: true,
			Prefix:  params.FIM.Prefix,
			Suffix:  params.FIM.Suffix,
			Middle:  params.FIM.Middle,
		})
	} else {
		promptText, err = prompt.BuildPrefix(rope, params.Position.Line, params.Position.Character, params.ContextWindow, counter)
	}
	if err != nil {
		return nil, err
	}

	body, err := backend.BuildBody(params.Backend.Kind, params.Model, promptText, params.Extra)
	if err != nil {
		return nil, err
	}
	headers := backend.BuildHeaders(params.Backend.Kind, params.APIToken, params.IDE)
	reqURL := backend.RequestURL(params.Backend, params.Model, params.DisableURLPathCompletion)

	client := s.resolveBackendClient(params.TLSSkipVerifyInsecure)
	respBody, err := postJSON(client, reqURL, headers, body)
	if err != nil {
		return nil, err
	}

	completions, err := backend.Parse(params.Backend.Kind, respBody)
	if err != nil {
		return nil, err
	}
	completions = backend.StripStopTokens(completions, params.TokensToStrip)

	res := backend.NewCompletionResult(completions)
	shown := make([]int, len(completions))
	for i := range completions {
		shown[i] = i
	}
	s.ledger.RecordShown(res.RequestID, shown)

	out := GetCompletionsResult{RequestID: res.RequestID.String()}
	for _, c := range completions {
		out.Completions = append(out.Completions, CompletionOutput{GeneratedText: c})
	}
	return out, nil
}

func postJSON(client *httpclient.SaferClient, reqURL string, headers http.Header, body map[string]any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errkind.Wrap(errkind.SerdeJSON, err, "marshal request body")
	}

	req, err := http.NewRequest(http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errkind.Wrap(errkind.IO, err, "build backend request")
	}
	req.Header = headers

	resp, err := client.Do(req)
	if err != nil {
		return nil, errkind.Wrap(errkind.HTTP, err, "backend request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errkind.Wrap(errkind.IO, err, "read backend response")
	}
	if resp.StatusCode >= 400 {
		return nil, errkind.Newf(errkind.InvalidBackendResponse, "backend returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// acceptCompletion implements llm-ls/acceptCompletion.
func (s *Server) acceptCompletion(params *AcceptCompletionParams) error {
	id, err := uuid.Parse(params.RequestID)
	if err != nil {
		return errkind.Wrap(errkind.IO, err, "parse request id")
	}
	s.ledger.Accept(id, params.AcceptedCompletion, params.ShownCompletions)
	return nil
}

// rejectCompletion implements llm-ls/rejectCompletion.
func (s *Server) rejectCompletion(params *RejectCompletionParams) error {
	id, err := uuid.Parse(params.RequestID)
	if err != nil {
		return errkind.Wrap(errkind.IO, err, "parse request id")
	}
	s.ledger.Reject(id, params.ShownCompletions)
	return nil
}

