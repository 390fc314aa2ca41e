package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"matrix/internal/audio"
	"matrix/internal/bus"
	"matrix/internal/command"
	"matrix/internal/config"
	"matrix/internal/ipc"
	"matrix/internal/notify"
	"matrix/internal/session"
	"matrix/internal/skills"
	"matrix/internal/speech"
	"matrix/internal/tts"
	"matrix/internal/wakeword"
	"matrix/pkg/audioconv"
	"matrix/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "matrix.json", "Config file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	wakeWord := cli.StringP("wake-word", "w", "", "Override the wake word")
	timeout := cli.IntP("timeout", "t", 0, "Override the inactivity timeout, seconds")
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	busURL := cli.StringP("bus", "b", "", "Telemetry bus websocket URL")
	model := cli.StringP("model", "m", "", "Whisper model path")
	noMic := cli.Bool("no-mic", false, "Run without a microphone, control socket only")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	if *wakeWord != "" {
		cfg.WakeWord = *wakeWord
	}
	if *timeout > 0 {
		cfg.TimeoutSec = *timeout
	}

	modelPath := *model
	if modelPath == "" {
		modelPath = os.Getenv("WHISPER_MODEL")
	}
	if modelPath == "" {
		modelPath = "third_party/whisper.cpp/models/ggml-base.en.bin"
	}

	// --- speech in ---

	var whisper *stt.Transcriber
	whisper, err = stt.NewTranscriber(modelPath)
	if err != nil {
		if !*noMic {
			log.Error("Failed to init whisper", "model", modelPath, "err", err)
			os.Exit(1)
		}
		log.Warn("Whisper unavailable, audio file replay disabled", "err", err)
		whisper = nil
	} else {
		defer whisper.Close()
		log.Debug("Loaded whisper", "model", modelPath)
	}

	var mic speech.Transcriber
	if !*noMic {
		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer rec.Close()
		mic = audio.NewListener(rec, whisper, cfg.Voice)
		log.Debug("Loaded recorder")
	}

	injector := speech.NewInjector(mic)

	// --- speech out ---

	engine := tts.New(cfg.Voice)
	ducker := audio.NewDucker([]string{"espeak", "espeak-ng"}, 20)
	queue := speech.NewQueue(audio.NewDuckedSpeaker(engine, ducker), 16)
	defer queue.Close()

	// --- command engine ---

	registry := command.NewRegistry()
	registry.Register(skills.Catalog(cfg, queue)...)

	matcher := command.NewMatcher(registry, cfg.MatchThreshold)
	dispatcher := command.NewDispatcher(matcher, queue)

	wakeCfg := wakeword.DefaultConfig()
	wakeCfg.Phrase = cfg.WakeWord
	if len(cfg.AlternatePhrases) > 0 {
		wakeCfg.Alternates = cfg.AlternatePhrases
	}
	wakeCfg.Sensitivity = cfg.Sensitivity
	detector := wakeword.NewDetector(wakeCfg)

	var pub *bus.Publisher
	if *busURL != "" {
		pub, err = bus.Connect(*busURL)
		if err != nil {
			log.Warn("Telemetry bus unavailable", "url", *busURL, "err", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	detector.SetOnDetected(func(remainder string) {
		if err := notify.Chime(cfg.ChimePath); err != nil {
			log.Debug("Chime failed", "err", err)
		}
		pub.Utterance(cfg.WakeWord + " " + remainder)
	})

	sessCfg := session.DefaultConfig()
	sessCfg.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	sess := session.New(sessCfg, detector, dispatcher, injector, queue)

	// Counters snapshot for control clients. Refreshed on every state
	// change from the session goroutine, read from ipc handlers.
	var statsSnap atomic.Pointer[command.Stats]
	statsSnap.Store(&command.Stats{})
	sess.SetNotify(func(a session.Activity) {
		st := dispatcher.Stats()
		statsSnap.Store(&st)
		pub.State(a.String())
		pub.StatsSnapshot(st)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv, err := ipc.StartServer(*socket, func(req ipc.Request) ipc.Reply {
		return handleControl(req, injector, queue, whisper, cfg, &statsSnap, cancel)
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	log.Info("Boot up - successful", "wake", cfg.WakeWord, "socket", *socket)

	if err := sess.Run(ctx); err != nil {
		log.Error("Session aborted", "err", err)
		os.Exit(1)
	}

	log.Info("Shutting down")
}

func handleControl(
	req ipc.Request,
	injector *speech.Injector,
	queue *speech.Queue,
	whisper *stt.Transcriber,
	cfg *config.Config,
	statsSnap *atomic.Pointer[command.Stats],
	shutdown context.CancelFunc,
) ipc.Reply {
	log.Debug("Control request", "cmd", req.Cmd, "arg", req.Arg)

	switch req.Cmd {
	case ipc.CmdTrigger:
		arg := cfg.WakeWord
		if req.Arg != "" {
			arg += " " + req.Arg
		}
		if !injector.Inject(arg) {
			return ipc.Reply{OK: false, Message: "daemon busy"}
		}
		return ipc.Reply{OK: true, Message: "triggered"}

	case ipc.CmdSay:
		if req.Arg == "" {
			return ipc.Reply{OK: false, Message: "nothing to say"}
		}
		queue.Speak(req.Arg)
		return ipc.Reply{OK: true, Message: "speaking"}

	case ipc.CmdFile:
		if whisper == nil {
			return ipc.Reply{OK: false, Message: "whisper model not loaded"}
		}
		if req.Arg == "" {
			return ipc.Reply{OK: false, Message: "no file given"}
		}
		go replayFile(req.Arg, injector, whisper, cfg)
		return ipc.Reply{OK: true, Message: "transcribing " + req.Arg}

	case ipc.CmdStats:
		return ipc.Reply{OK: true, Stats: statsSnap.Load()}

	case ipc.CmdSleep:
		if !injector.Inject("goodbye") {
			return ipc.Reply{OK: false, Message: "daemon busy"}
		}
		return ipc.Reply{OK: true, Message: "going to sleep"}

	case ipc.CmdStop:
		shutdown()
		return ipc.Reply{OK: true, Message: "stopping"}

	default:
		log.Warn("Unknown control command", "cmd", req.Cmd)
		return ipc.Reply{OK: false, Message: "unknown command: " + req.Cmd}
	}
}

// replayFile transcribes an audio file and feeds the text into the
// session as if it had been spoken. The wake word is prefixed so the
// command works from idle.
func replayFile(path string, injector *speech.Injector, whisper *stt.Transcriber, cfg *config.Config) {
	samples, err := audioconv.Decode16k(path, 0)
	if err != nil {
		log.Error("Failed to decode audio file", "path", path, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := whisper.TranscribePCM(ctx, samples, stt.Options{Language: cfg.Voice})
	if err != nil {
		log.Error("Failed to transcribe audio file", "path", path, "err", err)
		return
	}

	log.Info("Transcribed file", "path", path, "text", res.Text)
	injector.Inject(cfg.WakeWord + " " + res.Text)
}
