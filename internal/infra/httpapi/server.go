package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"polyglot/internal/application"
	"polyglot/internal/domain"
	"polyglot/internal/infra/storage"
)

const maxMultipartMemory = 32 << 20

// Server exposes the translation, chat, and voice API over HTTP.
type Server struct {
	translator *application.Translator
	chat       *application.ChatService
	voice      *application.VoiceService
	audio      *storage.AudioStore
	logger     *slog.Logger
	router     *mux.Router
}

func NewServer(
	translator *application.Translator,
	chat *application.ChatService,
	voice *application.VoiceService,
	audio *storage.AudioStore,
	logger *slog.Logger,
) *Server {
	s := &Server{
		translator: translator,
		chat:       chat,
		voice:      voice,
		audio:      audio,
		logger:     logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.instrument("root", s.handleRoot)).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/languages", s.instrument("languages", s.handleLanguages)).Methods(http.MethodGet)
	r.HandleFunc("/translate", s.instrument("translate", s.handleTranslate)).Methods(http.MethodPost)
	r.HandleFunc("/chat", s.instrument("chat", s.handleChat)).Methods(http.MethodPost)
	r.HandleFunc("/chat/{conversation_id}/history", s.instrument("chat_history", s.handleChatHistory)).Methods(http.MethodGet)
	r.HandleFunc("/chat/{conversation_id}", s.instrument("chat_clear", s.handleChatClear)).Methods(http.MethodDelete)
	r.HandleFunc("/voice/translate", s.instrument("voice_translate", s.handleVoiceTranslate)).Methods(http.MethodPost)
	r.HandleFunc("/voice/transcribe", s.instrument("voice_transcribe", s.handleVoiceTranscribe)).Methods(http.MethodPost)
	r.HandleFunc("/voice/synthesize", s.instrument("voice_synthesize", s.handleVoiceSynthesize)).Methods(http.MethodPost)
	r.HandleFunc("/audio/{filename}", s.instrument("serve_audio", s.handleServeAudio)).Methods(http.MethodGet)
	s.router = r

	return s
}

// Handler returns the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.router)
}

// instrument records request counts and latency per endpoint.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Multilingual AI Translation API",
		"features": []string{
			"Text translation in 80+ languages",
			"Voice-to-voice translation",
			"Multilingual chat with AI agents",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	catalog := domain.Languages()
	writeJSON(w, http.StatusOK, map[string]any{
		"supported_languages": catalog,
		"total_count":         len(catalog),
	})
}

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "translate", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Text == "" {
		s.writeError(w, "translate", errors.New("text is required"))
		return
	}

	translated, err := s.translator.Translate(r.Context(), req.Text, req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		s.writeError(w, "translate", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"original_text":   req.Text,
		"translated_text": translated,
		"source_language": req.SourceLanguage,
		"target_language": req.TargetLanguage,
	})
}

type chatRequest struct {
	Message        string `json:"message"`
	Language       string `json:"language"`
	ConversationID string `json:"conversation_id"`
	AgentType      string `json:"agent_type"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "chat", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Message == "" {
		s.writeError(w, "chat", errors.New("message is required"))
		return
	}
	if req.Language == "" {
		s.writeError(w, "chat", errors.New("language is required"))
		return
	}
	if req.AgentType == "" {
		req.AgentType = "general"
	}

	reply, id, err := s.chat.Chat(r.Context(), req.Message, req.Language, req.ConversationID, req.AgentType)
	if err != nil {
		s.writeError(w, "chat", err)
		return
	}
	conversationsLive.Set(float64(s.chat.Count()))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"response":        reply,
		"conversation_id": id,
		"language":        req.Language,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["conversation_id"]
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"conversation_id": id,
		"history":         s.chat.History(id),
	})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["conversation_id"]
	cleared := s.chat.Clear(id)
	conversationsLive.Set(float64(s.chat.Count()))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"conversation_id": id,
		"cleared":         cleared,
	})
}

func (s *Server) handleVoiceTranslate(w http.ResponseWriter, r *http.Request) {
	audio, err := s.readAudioUpload(r)
	if err != nil {
		s.writeError(w, "voice_translate", err)
		return
	}

	source := formValueDefault(r, "source_language", "auto")
	target := formValueDefault(r, "target_language", "en")
	voice := r.FormValue("voice_type")

	result, err := s.voice.VoiceToVoice(r.Context(), audio, source, target, voice)
	if err != nil {
		s.writeError(w, "voice_translate", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"transcribed_text": result.TranscribedText,
		"translated_text":  result.TranslatedText,
		"audio_url":        result.AudioURL,
		"source_language":  result.SourceLanguage,
		"target_language":  result.TargetLanguage,
	})
}

func (s *Server) handleVoiceTranscribe(w http.ResponseWriter, r *http.Request) {
	audio, err := s.readAudioUpload(r)
	if err != nil {
		s.writeError(w, "voice_transcribe", err)
		return
	}

	language := formValueDefault(r, "language", "auto")

	text, err := s.voice.Transcribe(r.Context(), audio, language)
	if err != nil {
		s.writeError(w, "voice_transcribe", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"transcribed_text": text,
		"language":         language,
	})
}

func (s *Server) handleVoiceSynthesize(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("text")
	if text == "" {
		s.writeError(w, "voice_synthesize", errors.New("text is required"))
		return
	}
	language := formValueDefault(r, "language", "en")
	voice := r.FormValue("voice_type")

	audioURL, err := s.voice.Synthesize(r.Context(), text, voice)
	if err != nil {
		s.writeError(w, "voice_synthesize", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"text":       text,
		"audio_url":  audioURL,
		"language":   language,
		"voice_type": s.voice.ResolveVoice(voice),
	})
}

func (s *Server) handleServeAudio(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	f, err := s.audio.Open(name)
	if err != nil {
		s.writeError(w, "serve_audio", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, "serve_audio", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// readAudioUpload pulls the multipart audio file into memory, validating
// extension and size first. The buffer is request-scoped; nothing holds
// it past the handler.
func (s *Server) readAudioUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, fmt.Errorf("parsing multipart form: %w", err)
	}

	file, hdr, err := r.FormFile("audio_file")
	if err != nil {
		// Some clients send the file under a generic name.
		file, hdr, err = r.FormFile("file")
	}
	if err != nil {
		return nil, errors.New("missing form file 'audio_file'")
	}
	defer file.Close()

	if err := s.voice.ValidateUpload(hdr.Filename, int(hdr.Size)); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading audio upload: %w", err)
	}
	return data, nil
}

// writeError renders every failure the same way: HTTP 500 with the
// error's message under "detail".
func (s *Server) writeError(w http.ResponseWriter, endpoint string, err error) {
	s.logger.Error("request failed", "endpoint", endpoint, "error", err)

	var pe *application.ProviderError
	if errors.As(err, &pe) {
		providerErrorsTotal.WithLabelValues(endpoint).Inc()
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func formValueDefault(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}
