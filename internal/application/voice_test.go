package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"polyglot/internal/application"
	"polyglot/internal/domain"
)

// scriptedCompleter answers detection and translation prompts by
// inspecting the system turn, the way the live provider sees them.
type scriptedCompleter struct {
	detection   string
	translation string
}

func (s *scriptedCompleter) Complete(_ context.Context, turns []domain.Turn, _ float32, _ int) (string, error) {
	system := turns[0].Content
	if strings.Contains(system, "language detection") {
		return s.detection, nil
	}
	return s.translation, nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

type stubSynthesizer struct {
	audio  []byte
	err    error
	called bool
	voice  string
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string, voice string) ([]byte, error) {
	s.called = true
	s.voice = voice
	return s.audio, s.err
}

type memoryAudioStore struct {
	saved [][]byte
	name  string
}

func (m *memoryAudioStore) Save(data []byte) (string, error) {
	m.saved = append(m.saved, data)
	return m.name, nil
}

func newVoiceService(completer application.Completer, tr application.Transcriber, sy application.Synthesizer, store application.AudioStore) *application.VoiceService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	translator := application.NewTranslator(completer, application.NewPromptBuilder(10), logger)
	return application.NewVoiceService(tr, sy, translator, store, 25, []string{".mp3", ".wav", ".m4a", ".ogg"}, "alloy", logger)
}

func TestVoiceToVoice_Pipeline(t *testing.T) {
	synth := &stubSynthesizer{audio: []byte{0x49, 0x44, 0x33}}
	store := &memoryAudioStore{name: "out.mp3"}
	svc := newVoiceService(
		&scriptedCompleter{detection: "fr", translation: "Hello"},
		&stubTranscriber{text: "Bonjour"},
		synth,
		store,
	)

	result, err := svc.VoiceToVoice(context.Background(), []byte("fake-audio"), "auto", "en", "nova")
	if err != nil {
		t.Fatalf("VoiceToVoice error: %v", err)
	}

	if result.TranscribedText != "Bonjour" {
		t.Errorf("TranscribedText: got %q", result.TranscribedText)
	}
	if result.SourceLanguage != "fr" {
		t.Errorf("SourceLanguage: got %q, want detected fr", result.SourceLanguage)
	}
	if result.TranslatedText != "Hello" {
		t.Errorf("TranslatedText: got %q", result.TranslatedText)
	}
	if result.AudioURL != "/audio/out.mp3" {
		t.Errorf("AudioURL: got %q", result.AudioURL)
	}
	if synth.voice != "nova" {
		t.Errorf("voice: got %q, want nova", synth.voice)
	}
	if len(store.saved) != 1 || string(store.saved[0]) != string(synth.audio) {
		t.Error("synthesized bytes were not stored")
	}
}

func TestVoiceToVoice_ExplicitSourceSkipsDetection(t *testing.T) {
	svc := newVoiceService(
		&scriptedCompleter{detection: "should-not-be-used", translation: "Hello"},
		&stubTranscriber{text: "Bonjour"},
		&stubSynthesizer{audio: []byte{1}},
		&memoryAudioStore{name: "out.mp3"},
	)

	result, err := svc.VoiceToVoice(context.Background(), []byte("audio"), "fr", "en", "")
	if err != nil {
		t.Fatalf("VoiceToVoice error: %v", err)
	}
	if result.SourceLanguage != "fr" {
		t.Errorf("SourceLanguage: got %q, want fr", result.SourceLanguage)
	}
}

func TestVoiceToVoice_TranscribeFailureAborts(t *testing.T) {
	synth := &stubSynthesizer{audio: []byte{1}}
	svc := newVoiceService(
		&scriptedCompleter{detection: "fr", translation: "Hello"},
		&stubTranscriber{err: errors.New("bad audio")},
		synth,
		&memoryAudioStore{name: "out.mp3"},
	)

	if _, err := svc.VoiceToVoice(context.Background(), []byte("audio"), "auto", "en", ""); err == nil {
		t.Fatal("expected transcription error")
	}
	if synth.called {
		t.Error("synthesis must not run after an earlier stage fails")
	}
}

func TestVoiceToVoice_UnknownTargetFailsBeforeSynthesis(t *testing.T) {
	synth := &stubSynthesizer{audio: []byte{1}}
	svc := newVoiceService(
		&scriptedCompleter{detection: "fr", translation: "Hello"},
		&stubTranscriber{text: "Bonjour"},
		synth,
		&memoryAudioStore{name: "out.mp3"},
	)

	_, err := svc.VoiceToVoice(context.Background(), []byte("audio"), "fr", "not-a-language", "")
	if !errors.Is(err, domain.ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
	if synth.called {
		t.Error("synthesis must not run for an invalid target language")
	}
}

func TestValidateUpload(t *testing.T) {
	svc := newVoiceService(nil, nil, nil, nil)

	if err := svc.ValidateUpload("speech.wav", 1024); err != nil {
		t.Errorf("valid upload rejected: %v", err)
	}
	if err := svc.ValidateUpload("movie.avi", 1024); err == nil {
		t.Error("unsupported extension should be rejected")
	}
	if err := svc.ValidateUpload("speech.wav", 26*1024*1024); err == nil {
		t.Error("oversized upload should be rejected")
	}
	if err := svc.ValidateUpload("speech.wav", 0); err == nil {
		t.Error("empty upload should be rejected")
	}
}

func TestResolveVoice(t *testing.T) {
	svc := newVoiceService(nil, nil, nil, nil)

	if got := svc.ResolveVoice("shimmer"); got != "shimmer" {
		t.Errorf("known voice changed: %s", got)
	}
	if got := svc.ResolveVoice("robbie"); got != "alloy" {
		t.Errorf("unknown voice should fall back to default, got %s", got)
	}
	if got := svc.ResolveVoice(""); got != "alloy" {
		t.Errorf("empty voice should fall back to default, got %s", got)
	}
}
