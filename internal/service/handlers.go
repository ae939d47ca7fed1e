package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	wordservice "github.com/chazai233/word-service"
	"github.com/chazai233/word-service/htmltable"
	"github.com/chazai233/word-service/report"
)

// Templates picked up from the configured directory when a request
// carries no document of its own.
const (
	defaultTemplateName   = "template.docx"
	defaultEnTemplateName = "template_en.docx"
)

// English rendition of the daily statistics table.
var englishHeaders = []string{"No.", "Location", "Work Content", "Quantity", "Remarks"}

const (
	defaultHeading   = "当日施工统计表"
	defaultEnHeading = "Construction Activities"
)

// Server wires the document engine and the weather client behind the
// HTTP surface.
type Server struct {
	cfg     Config
	engine  *wordservice.Engine
	weather *WeatherClient
	logger  *zap.Logger
}

// New builds a server from the configuration.
func New(cfg Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		engine:  wordservice.NewEngine(),
		weather: NewWeatherClient(cfg.WeatherURL, cfg.WeatherTimeout, logger),
		logger:  logger,
	}
}

// response is the uniform envelope: operational failures report through
// success=false with an HTTP 200, never a 5xx. Generation answers with
// the cn/en document pair plus the weather info it stamped; the
// single-document endpoints use document_base64.
type response struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message,omitempty"`
	DocumentBase64   string       `json:"document_base64,omitempty"`
	CnDocumentBase64 string       `json:"cn_document_base64,omitempty"`
	EnDocumentBase64 string       `json:"en_document_base64,omitempty"`
	WeatherInfo      *WeatherInfo `json:"weather_info,omitempty"`
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/fill-template", s.handleFillTemplate)
	mux.HandleFunc("/update-date-weather", s.handleUpdateDateWeather)
	mux.HandleFunc("/update-personnel-stats", s.handleUpdatePersonnelStats)
	mux.HandleFunc("/update-appendix-tables", s.handleUpdateAppendixTables)
	mux.HandleFunc("/generate-from-template", s.handleGenerateFromTemplate)
	return cors(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, response{Success: true, Message: "ok"})
}

func (s *Server) handleFillTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateBase64 string `json:"template_base64"`
		Content        string `json:"content"`
		TableIndex     int    `json:"table_index"`
		RowIndex       int    `json:"row_index"`
		ColIndex       int    `json:"col_index"`
	}
	if !s.decodeRequest(w, r, &req) {
		return
	}
	template, err := s.loadTemplate(req.TemplateBase64, defaultTemplateName)
	if err != nil {
		s.fail(w, "reading template", err)
		return
	}
	out, err := s.engine.FillTemplate(template, req.Content, req.TableIndex, req.RowIndex, req.ColIndex)
	if err != nil {
		s.fail(w, "filling template", err)
		return
	}
	s.succeed(w, out, "template filled")
}

func (s *Server) handleUpdateDateWeather(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentBase64 string `json:"document_base64"`
	}
	if !s.decodeRequest(w, r, &req) {
		return
	}
	doc, err := decodeDocument(req.DocumentBase64)
	if err != nil {
		s.fail(w, "decoding document", err)
		return
	}
	info := s.weather.Fetch(r.Context())
	out, err := s.engine.UpdateDateWeather(doc, info.Date, info.WeatherText())
	if err != nil {
		s.fail(w, "updating date and weather", err)
		return
	}
	s.succeed(w, out, "date and weather updated")
}

func (s *Server) handleUpdatePersonnelStats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentBase64 string `json:"document_base64"`
		PersonnelText  string `json:"personnel_text"`
	}
	if !s.decodeRequest(w, r, &req) {
		return
	}
	doc, err := decodeDocument(req.DocumentBase64)
	if err != nil {
		s.fail(w, "decoding document", err)
		return
	}
	out, err := s.engine.AppendPersonnelStats(doc, req.PersonnelText)
	if err != nil {
		s.fail(w, "appending personnel stats", err)
		return
	}
	s.succeed(w, out, "personnel stats appended")
}

func (s *Server) handleUpdateAppendixTables(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentBase64 string `json:"document_base64"`
		Data           []struct {
			TableIndex int    `json:"table_index"`
			RowName    string `json:"row_name"`
			TodayQty   string `json:"today_qty"`
			TotalQty   string `json:"total_qty"`
		} `json:"data"`
	}
	if !s.decodeRequest(w, r, &req) {
		return
	}
	doc, err := decodeDocument(req.DocumentBase64)
	if err != nil {
		s.fail(w, "decoding document", err)
		return
	}
	patches := make([]wordservice.RowPatch, len(req.Data))
	for i, d := range req.Data {
		patches[i] = wordservice.RowPatch{
			TableIndex: d.TableIndex,
			RowLabel:   d.RowName,
			Today:      d.TodayQty,
			Total:      d.TotalQty,
		}
	}
	out, applied, err := s.engine.UpdateAppendixTables(doc, patches)
	if err != nil {
		s.fail(w, "updating appendix tables", err)
		return
	}
	s.succeed(w, out, fmt.Sprintf("updated %d of %d rows", applied, len(patches)))
}

func (s *Server) handleGenerateFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CnTemplateBase64 string          `json:"cn_template_base64"`
		EnTemplateBase64 string          `json:"en_template_base64"`
		ChineseData      json.RawMessage `json:"chinese_data"`
		EnglishData      json.RawMessage `json:"english_data"`
		ChineseHTML      string          `json:"chinese_html"`
		Heading          string          `json:"heading"`
		AliasHeadings    []string        `json:"alias_headings"`
		ReplaceExisting  bool            `json:"replace_existing"`
	}
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var (
		recs []report.Record
		err  error
	)
	switch {
	case hasPayload(req.ChineseData):
		recs, err = decodeChineseRecords(req.ChineseData)
		if err != nil {
			s.fail(w, "decoding chinese data", err)
			return
		}
	case req.ChineseHTML != "":
		recs, err = htmltable.Parse(strings.NewReader(req.ChineseHTML))
		if err != nil {
			s.fail(w, "parsing html table", err)
			return
		}
	default:
		s.fail(w, "no data", fmt.Errorf("request carries neither chinese_data nor chinese_html"))
		return
	}

	info := s.weather.Fetch(r.Context())

	heading := req.Heading
	if heading == "" {
		heading = defaultHeading
	}
	cnDoc, anchored, err := s.generateDocument(req.CnTemplateBase64, defaultTemplateName, nil, recs, heading, req.AliasHeadings, req.ReplaceExisting, info)
	if err != nil {
		s.fail(w, "generating chinese document", err)
		return
	}

	resp := response{
		Success:          true,
		DocumentBase64:   base64.StdEncoding.EncodeToString(cnDoc),
		CnDocumentBase64: base64.StdEncoding.EncodeToString(cnDoc),
		WeatherInfo:      &info,
	}
	resp.Message = "table inserted after heading"
	if !anchored {
		resp.Message = "heading not found, table appended at end"
	}

	if hasPayload(req.EnglishData) {
		enRecs, err := decodeEnglishRecords(req.EnglishData)
		if err != nil {
			s.fail(w, "decoding english data", err)
			return
		}
		enDoc, _, err := s.generateDocument(req.EnTemplateBase64, defaultEnTemplateName, englishHeaders, enRecs, defaultEnHeading, nil, req.ReplaceExisting, info)
		if err != nil {
			s.fail(w, "generating english document", err)
			return
		}
		resp.EnDocumentBase64 = base64.StdEncoding.EncodeToString(enDoc)
	}

	s.writeJSON(w, resp)
}

// generateDocument loads one template, stamps the weather info, and
// inserts the statistics table. The stamp runs first so it targets the
// template's own info table, never the freshly inserted one; on templates
// without an info table it is a no-op.
func (s *Server) generateDocument(templateB64, defaultName string, headers []string, recs []report.Record, heading string, aliases []string, replaceExisting bool, info WeatherInfo) ([]byte, bool, error) {
	template, err := s.loadTemplate(templateB64, defaultName)
	if err != nil {
		return nil, false, err
	}
	doc, err := s.engine.UpdateDateWeather(template, info.Date, info.WeatherText())
	if err != nil {
		return nil, false, err
	}
	return s.engine.InsertTable(doc, headers, recs, heading, aliases, replaceExisting)
}

// loadTemplate decodes the given buffer, or reads the named default
// template from the configured directory when the request carries none.
func (s *Server) loadTemplate(b64, defaultName string) ([]byte, error) {
	if b64 != "" {
		return decodeDocument(b64)
	}
	path := filepath.Join(s.cfg.TemplateDir, defaultName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading default template: %w", err)
	}
	return data, nil
}

func decodeDocument(b64 string) ([]byte, error) {
	if b64 == "" {
		return nil, fmt.Errorf("empty document buffer")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 document: %w", err)
	}
	return data, nil
}

// decodeRequest rejects non-POST methods and malformed JSON bodies. It
// reports whether the handler should proceed.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.fail(w, "decoding request", err)
		return false
	}
	return true
}

func (s *Server) succeed(w http.ResponseWriter, doc []byte, msg string) {
	s.writeJSON(w, response{
		Success:        true,
		Message:        msg,
		DocumentBase64: base64.StdEncoding.EncodeToString(doc),
	})
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Warn(msg, zap.Error(err))
	s.writeJSON(w, response{Success: false, Message: fmt.Sprintf("%s: %v", msg, err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// cors applies the permissive policy the browser automations require.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
