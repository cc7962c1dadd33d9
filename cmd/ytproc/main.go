package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/hsalam/ytproc/internal/archive"
	"github.com/hsalam/ytproc/internal/config"
	"github.com/hsalam/ytproc/internal/logging"
	"github.com/hsalam/ytproc/internal/model"
	"github.com/hsalam/ytproc/internal/progress"
	"github.com/hsalam/ytproc/internal/resolver"
	"github.com/hsalam/ytproc/internal/run"
)

// Styles for terminal event lines.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func main() {
	// Command line flags
	var (
		configFlag = flag.String("config", "", "Path to config file")

		outputFlag           = flag.String("output-path", "", "Output path template (overrides config)")
		archiveFlag          = flag.String("archive-file", "", "Download archive file")
		processedArchiveFlag = flag.String("processed-archive", "", "Processed archive file")
		logFileFlag          = flag.String("log-file", "", "Log file")

		audioOnlyFlag    = flag.Bool("audio-only", false, "Download audio only")
		audioFormatFlag  = flag.String("audio-format", "", "Audio format (e.g., mp3, m4a, flac)")
		audioBitrateFlag = flag.String("audio-bitrate", "", "Audio bitrate in kbps (e.g., 128, 192, 320)")
		qualityFlag      = flag.String("quality", "", "Video quality ceiling (e.g., 1080, 720)")

		subtitlesFlag = flag.Bool("subtitles", false, "Embed subtitles (video only)")
		subLangsFlag  = flag.String("sub-langs", "", "Subtitle languages list")

		suffixFlag       = flag.String("filename-suffix", "", "Suffix to add after processing")
		skipFlag         = flag.Bool("skip-processing", false, "Skip the processing stage")
		processModeFlag  = flag.String("process-mode", "", "Video processing mode: encode (re-encode) or copy (stream copy)")
		crfFlag          = flag.Int("crf", -1, "CRF value for x264 encoding (lower = better quality)")
		presetFlag       = flag.String("preset", "", "x264 encoding speed preset")
		audioCodecFlag   = flag.String("audio-codec", "", "Audio codec mode when processing video: encode or copy")
		keepOriginalFlag = flag.Bool("keep-original", false, "Keep original file after processing")
		workersFlag      = flag.Int("max-workers", 0, "Max number of concurrent processing jobs")
		tagAudioFlag     = flag.Bool("tag-audio", false, "Write ID3 tags to processed mp3 files")
		timeoutFlag      = flag.Int("task-timeout", -1, "Per-task processing timeout in minutes (0 disables)")

		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag  = flag.Bool("dry-run", false, "Resolve the identifier without downloading")
	)

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("ytproc - Download and process YouTube channels and playlists")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ytproc [options] <channel URL, @handle, channel ID, or playlist URL>")
		fmt.Println()
		fmt.Println("For interactive mode, use: ytproc-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}
	identifier := flag.Arg(0)

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}
	if *archiveFlag != "" {
		settings.ArchiveFile = *archiveFlag
	}
	if *processedArchiveFlag != "" {
		settings.ProcessedArchive = *processedArchiveFlag
	}
	if *logFileFlag != "" {
		settings.LogFile = *logFileFlag
	}
	if *audioOnlyFlag {
		settings.AudioOnly = true
	}
	if *audioFormatFlag != "" {
		settings.AudioFormat = *audioFormatFlag
	}
	if *audioBitrateFlag != "" {
		settings.AudioBitrate = *audioBitrateFlag
	}
	if *qualityFlag != "" {
		settings.Quality = *qualityFlag
	}
	if *subtitlesFlag {
		settings.Subtitles = true
	}
	if *subLangsFlag != "" {
		settings.SubLangs = *subLangsFlag
	}
	if *suffixFlag != "" {
		settings.FilenameSuffix = *suffixFlag
	}
	if *skipFlag {
		settings.SkipProcessing = true
	}
	if *processModeFlag != "" {
		settings.ProcessMode = *processModeFlag
	}
	if *crfFlag >= 0 {
		settings.CRF = *crfFlag
	}
	if *presetFlag != "" {
		settings.Preset = *presetFlag
	}
	if *audioCodecFlag != "" {
		settings.AudioCodec = *audioCodecFlag
	}
	if *keepOriginalFlag {
		settings.KeepOriginal = true
	}
	if *workersFlag > 0 {
		settings.MaxWorkers = *workersFlag
	}
	if *tagAudioFlag {
		settings.TagAudio = true
	}
	if *timeoutFlag >= 0 {
		settings.TaskTimeoutMinutes = *timeoutFlag
	}
	if *verboseFlag {
		settings.Verbose = true
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}
	warnings := settings.Normalize()

	if *dryRunFlag {
		urls, err := resolver.Resolve(identifier)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("[Dry run - not downloading]")
		for _, u := range urls {
			fmt.Println("  " + u)
		}
		return
	}

	logger, logCloser, err := logging.New(logging.Options{Path: settings.LogFile, Verbose: settings.Verbose})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	for _, w := range warnings {
		logger.Warn(w)
		fmt.Println(warningStyle.Render("! " + w))
	}

	processedArchive, err := archive.Load(settings.ProcessedArchive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading processed archive: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create runner with progress callback; live byte bars go to stderr so
	// they never interleave with the event lines on stdout.
	reporter := progress.NewConsole(os.Stderr)
	runner := run.NewRunner(settings, processedArchive, nil, nil, reporter, logger, func(event model.ProgressEvent) {
		if event.Level == model.LevelVerbose && !settings.Verbose {
			return
		}

		var style lipgloss.Style
		prefix := "  "
		switch event.Level {
		case model.LevelError:
			style, prefix = errorStyle, "✗ "
		case model.LevelWarning:
			style, prefix = warningStyle, "! "
		case model.LevelSuccess:
			style, prefix = successStyle, "✓ "
		case model.LevelInfo:
			style, prefix = infoStyle, "› "
		default:
			style = dimStyle
		}
		fmt.Println(style.Render(prefix + event.Message))
	})

	summary, err := runner.Run(ctx, identifier)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nRun cancelled.")
			os.Exit(130)
		}
		if errors.Is(err, resolver.ErrInvalidIdentifier) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Done. %d queued, %d processed, %d skipped, %d failed.\n",
		summary.Queued, summary.Succeeded, summary.Skipped, summary.Failed)

	if summary.AllFailed() {
		os.Exit(1)
	}
}
