package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownLanguage is returned when a language code is not in the catalog.
var ErrUnknownLanguage = errors.New("unsupported language")

// languages maps ISO 639-1 style codes to display names.
var languages = map[string]string{
	"en": "English", "es": "Spanish", "fr": "French", "de": "German",
	"it": "Italian", "pt": "Portuguese", "ru": "Russian", "ja": "Japanese",
	"ko": "Korean", "zh": "Chinese", "ar": "Arabic", "hi": "Hindi",
	"bn": "Bengali", "ur": "Urdu", "id": "Indonesian", "tr": "Turkish",
	"vi": "Vietnamese", "th": "Thai", "pl": "Polish", "nl": "Dutch",
	"sv": "Swedish", "da": "Danish", "no": "Norwegian", "fi": "Finnish",
	"cs": "Czech", "hu": "Hungarian", "ro": "Romanian", "el": "Greek",
	"he": "Hebrew", "fa": "Persian", "uk": "Ukrainian", "bg": "Bulgarian",
	"sr": "Serbian", "hr": "Croatian", "sk": "Slovak", "sl": "Slovenian",
	"lt": "Lithuanian", "lv": "Latvian", "et": "Estonian", "is": "Icelandic",
	"ga": "Irish", "mt": "Maltese", "cy": "Welsh", "eu": "Basque",
	"ca": "Catalan", "gl": "Galician", "af": "Afrikaans", "sq": "Albanian",
	"az": "Azerbaijani", "be": "Belarusian", "bs": "Bosnian", "ka": "Georgian",
	"hy": "Armenian", "mk": "Macedonian", "mn": "Mongolian", "kk": "Kazakh",
	"uz": "Uzbek", "sw": "Swahili", "ha": "Hausa", "yo": "Yoruba",
	"ig": "Igbo", "am": "Amharic", "so": "Somali", "ny": "Chichewa",
	"mg": "Malagasy", "mi": "Maori", "sm": "Samoan", "haw": "Hawaiian",
	"ms": "Malay", "tl": "Tagalog", "jv": "Javanese", "su": "Sundanese",
	"lo": "Lao", "my": "Burmese", "km": "Khmer", "ne": "Nepali",
	"si": "Sinhala", "ta": "Tamil", "te": "Telugu", "ml": "Malayalam",
	"kn": "Kannada", "mr": "Marathi", "gu": "Gujarati", "pa": "Punjabi",
	"sd": "Sindhi", "ps": "Pashto", "ku": "Kurdish", "ckb": "Central Kurdish",
}

// ResolveLanguage returns the display name for a language code.
func ResolveLanguage(code string) (string, error) {
	name, ok := languages[code]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, code)
	}
	return name, nil
}

// Languages returns a copy of the full code-to-name catalog.
func Languages() map[string]string {
	out := make(map[string]string, len(languages))
	for code, name := range languages {
		out[code] = name
	}
	return out
}
