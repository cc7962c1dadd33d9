package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hsalam/ytproc/internal/ioutils"
)

// Codec mode values for ProcessMode and AudioCodec.
const (
	ModeCopy   = "copy"
	ModeEncode = "encode"
)

// Settings holds all configuration options.
type Settings struct {
	// Paths and archives
	OutputPath       string `json:"output_path"`
	ArchiveFile      string `json:"archive_file"`
	ProcessedArchive string `json:"processed_archive"`
	LogFile          string `json:"log_file"`

	// Quality and format
	AudioOnly    bool   `json:"audio_only"`
	AudioFormat  string `json:"audio_format"`
	AudioBitrate string `json:"audio_bitrate"`
	Quality      string `json:"quality"`

	// Subtitles (video only)
	Subtitles bool   `json:"subtitles"`
	SubLangs  string `json:"sub_langs"`

	// Processing
	FilenameSuffix     string `json:"filename_suffix"`
	SkipProcessing     bool   `json:"skip_processing"`
	ProcessMode        string `json:"process_mode"`
	CRF                int    `json:"crf"`
	Preset             string `json:"preset"`
	AudioCodec         string `json:"audio_codec"`
	KeepOriginal       bool   `json:"keep_original"`
	MaxWorkers         int    `json:"max_workers"`
	TaskTimeoutMinutes int    `json:"task_timeout_minutes"`

	// Audio post-processing
	TagAudio bool `json:"tag_audio"`

	// Output verbosity
	Verbose bool `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputPath:       "downloads/%(channel)s/%(upload_date)s - %(title)s [%(id)s].%(ext)s",
		ArchiveFile:      "downloaded.txt",
		ProcessedArchive: "processed.txt",
		LogFile:          "downloader.log",

		AudioOnly:    false,
		AudioFormat:  "mp3",
		AudioBitrate: "192",
		Quality:      "1080",

		Subtitles: false,
		SubLangs:  "en",

		FilenameSuffix:     "Processed",
		SkipProcessing:     false,
		ProcessMode:        ModeEncode,
		CRF:                18,
		Preset:             "slow",
		AudioCodec:         ModeEncode,
		KeepOriginal:       false,
		MaxWorkers:         2,
		TaskTimeoutMinutes: 120,

		TagAudio: false,
		Verbose:  false,
	}
}

// Load reads settings from a JSON file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// validPresets are the x264 speed presets accepted by Validate.
var validPresets = map[string]bool{
	"ultrafast": true, "superfast": true, "veryfast": true, "faster": true,
	"fast": true, "medium": true, "slow": true, "slower": true, "veryslow": true,
}

// Validate checks enum fields and numeric ranges.
func (s *Settings) Validate() error {
	if s.ProcessMode != ModeCopy && s.ProcessMode != ModeEncode {
		return fmt.Errorf("process mode: invalid value %q (want %q or %q)", s.ProcessMode, ModeCopy, ModeEncode)
	}
	if s.AudioCodec != ModeCopy && s.AudioCodec != ModeEncode {
		return fmt.Errorf("audio codec: invalid value %q (want %q or %q)", s.AudioCodec, ModeCopy, ModeEncode)
	}
	if !validPresets[s.Preset] {
		return fmt.Errorf("preset: invalid value %q", s.Preset)
	}
	if s.CRF < 0 || s.CRF > 51 {
		return fmt.Errorf("crf: value %d out of range 0-51", s.CRF)
	}
	if s.MaxWorkers < 1 {
		return fmt.Errorf("max workers: value %d must be at least 1", s.MaxWorkers)
	}
	if s.TaskTimeoutMinutes < 0 {
		return fmt.Errorf("task timeout: value %d must not be negative", s.TaskTimeoutMinutes)
	}
	return nil
}

// Normalize reconciles incompatible options and sanitizes user-supplied
// values. It returns human-readable warnings for anything it changed.
func (s *Settings) Normalize() []string {
	var warnings []string

	if s.AudioOnly && s.Subtitles {
		s.Subtitles = false
		warnings = append(warnings, "Subtitles cannot be used with audio-only mode. Ignoring subtitles.")
	}

	if clean := ioutils.SanitizeName(s.FilenameSuffix); clean != s.FilenameSuffix {
		s.FilenameSuffix = clean
		warnings = append(warnings, fmt.Sprintf("Filename suffix contained unsafe characters, using %q.", clean))
	}

	return warnings
}

// TaskTimeout returns the per-task transcode deadline. Zero disables it.
func (s *Settings) TaskTimeout() time.Duration {
	return time.Duration(s.TaskTimeoutMinutes) * time.Minute
}
