package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// knownVoices are the provider voice identifiers accepted for synthesis.
var knownVoices = map[string]bool{
	"alloy":   true,
	"echo":    true,
	"fable":   true,
	"onyx":    true,
	"nova":    true,
	"shimmer": true,
}

// AudioStore persists synthesized audio and hands back the stored
// filename.
type AudioStore interface {
	Save(data []byte) (string, error)
}

// VoiceTranslation carries every intermediate result of the
// voice-to-voice pipeline.
type VoiceTranslation struct {
	TranscribedText string
	TranslatedText  string
	AudioURL        string
	SourceLanguage  string
	TargetLanguage  string
}

// VoiceService handles transcription, speech synthesis, and the combined
// voice-to-voice translation pipeline.
type VoiceService struct {
	transcriber  Transcriber
	synthesizer  Synthesizer
	translator   *Translator
	store        AudioStore
	maxBytes     int
	formats      map[string]bool
	defaultVoice string
	logger       *slog.Logger
}

func NewVoiceService(
	transcriber Transcriber,
	synthesizer Synthesizer,
	translator *Translator,
	store AudioStore,
	maxSizeMB int,
	formats []string,
	defaultVoice string,
	logger *slog.Logger,
) *VoiceService {
	allowed := make(map[string]bool, len(formats))
	for _, ext := range formats {
		allowed[strings.ToLower(ext)] = true
	}
	return &VoiceService{
		transcriber:  transcriber,
		synthesizer:  synthesizer,
		translator:   translator,
		store:        store,
		maxBytes:     maxSizeMB * 1024 * 1024,
		formats:      allowed,
		defaultVoice: defaultVoice,
		logger:       logger,
	}
}

// ValidateUpload rejects audio uploads with unsupported extensions or
// sizes over the configured limit, before any provider call.
func (v *VoiceService) ValidateUpload(filename string, size int) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && len(v.formats) > 0 && !v.formats[ext] {
		return fmt.Errorf("unsupported audio format: %s", ext)
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return fmt.Errorf("audio exceeds maximum size of %d bytes", v.maxBytes)
	}
	if size == 0 {
		return fmt.Errorf("empty audio file")
	}
	return nil
}

// Transcribe converts audio to text. A language of "auto" leaves
// detection to the provider.
func (v *VoiceService) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	text, err := v.transcriber.Transcribe(ctx, audio, language)
	if err != nil {
		return "", fmt.Errorf("transcribing: %w", err)
	}

	v.logger.Debug("transcribed audio", "bytes", len(audio), "language", language)

	return strings.TrimSpace(text), nil
}

// Synthesize converts text to speech, stores the audio, and returns the
// URL path under which it is served. Unknown voices fall back to the
// configured default.
func (v *VoiceService) Synthesize(ctx context.Context, text, voice string) (string, error) {
	voice = v.ResolveVoice(voice)

	audio, err := v.synthesizer.Synthesize(ctx, text, voice)
	if err != nil {
		return "", fmt.Errorf("synthesizing speech: %w", err)
	}

	name, err := v.store.Save(audio)
	if err != nil {
		return "", fmt.Errorf("storing audio: %w", err)
	}

	v.logger.Debug("synthesized speech", "voice", voice, "bytes", len(audio), "file", name)

	return "/audio/" + name, nil
}

// VoiceToVoice runs transcribe, detect (when source is "auto"),
// translate, and synthesize in sequence. The first failing stage aborts
// the pipeline with its own error; no state is shared across stages.
func (v *VoiceService) VoiceToVoice(ctx context.Context, audio []byte, source, target, voice string) (*VoiceTranslation, error) {
	transcribed, err := v.Transcribe(ctx, audio, source)
	if err != nil {
		return nil, err
	}

	if source == "" || source == "auto" {
		source, err = v.translator.DetectLanguage(ctx, transcribed)
		if err != nil {
			return nil, err
		}
	}

	translated, err := v.translator.Translate(ctx, transcribed, source, target)
	if err != nil {
		return nil, err
	}

	audioURL, err := v.Synthesize(ctx, translated, voice)
	if err != nil {
		return nil, err
	}

	return &VoiceTranslation{
		TranscribedText: transcribed,
		TranslatedText:  translated,
		AudioURL:        audioURL,
		SourceLanguage:  source,
		TargetLanguage:  target,
	}, nil
}

// ResolveVoice maps unknown or empty voice identifiers to the
// configured default.
func (v *VoiceService) ResolveVoice(voice string) string {
	if knownVoices[voice] {
		return voice
	}
	return v.defaultVoice
}
