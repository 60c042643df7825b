package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/ottokiosk/otto-core/core"
	sttdeepgram "github.com/ottokiosk/otto-core/core/speechtotext/deepgram"
	ttsdeepgram "github.com/ottokiosk/otto-core/core/texttospeech/deepgram"

	"github.com/ottokiosk/otto-core/core/audio/miniaudio"
	"github.com/ottokiosk/otto-core/core/audio/portaudio"
	"github.com/ottokiosk/otto-core/core/identity/sqlite"
	"github.com/ottokiosk/otto-core/core/menu"
	"github.com/ottokiosk/otto-core/core/orderparsing/groq"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalog, err := menu.Load(cfg.MenuPath)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.IdentityDBPath)
	if err != nil {
		return fmt.Errorf("failed to open identity store: %w", err)
	}
	defer store.Close()

	capture, playback, closeAudio, err := openAudio(cfg)
	if err != nil {
		// A dead microphone or speaker leaves nothing to run.
		return err
	}
	defer closeAudio()

	speechClient, err := ttsdeepgram.NewSpeechClient()
	if err != nil {
		return fmt.Errorf("failed to initialize speech synthesis: %w", err)
	}

	parserOpts := []groq.ParserOption{}
	if cfg.GroqModel != "" {
		parserOpts = append(parserOpts, groq.WithModel(cfg.GroqModel))
	}
	parser, err := groq.NewParser(parserOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize order parsing: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presence := newSimulatedPresence(ctx, store)

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithFrameSource(presence),
		orchestration.WithIdentityCapability(presence),
		orchestration.WithSpeechCaptureClient(sttdeepgram.NewTranscriptionClient()),
		orchestration.WithSpeechSynthesizerClient(speechClient),
		orchestration.WithAudioCapture(capture),
		orchestration.WithAudioPlayback(playback),
		orchestration.WithOrderParser(parser),
		orchestration.WithPriceLookup(catalog.Price),
	)
	defer orchestrator.Close()

	program := tea.NewProgram(
		newKioskModel(catalog, presence),
		tea.WithAltScreen(),
	)

	err = orchestrator.Orchestrate(ctx,
		orchestration.WithStatusCallback(func(status orchestration.Status) {
			program.Send(statusMsg(status))
		}),
		orchestration.WithTranscriptCallback(func(line string) {
			program.Send(transcriptMsg(line))
		}),
		orchestration.WithResetCallback(func() {
			program.Send(resetMsg{})
		}),
	)
	if err != nil {
		return err
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run interface: %w", err)
	}
	return nil
}

// openAudio builds the configured device layer. Both backends satisfy the
// orchestrator's capture and playback contracts with a single client.
func openAudio(cfg config) (orchestration.AudioCapture, orchestration.AudioPlayback, func(), error) {
	switch cfg.AudioBackend {
	case "portaudio":
		client, err := portaudio.NewClient(cfg.PortaudioBufferSize)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize portaudio devices: %w", err)
		}
		return client, client, client.Close, nil
	case "miniaudio":
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize miniaudio devices: %w", err)
		}
		return client, client, client.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown audio backend %q", cfg.AudioBackend)
	}
}
