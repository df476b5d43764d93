package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	shellIn  string
	shellOut string
)

func init() {
	shellCmd.Flags().StringVar(&shellIn, "in", "", "midi input to recognize chords from, empty for none")
	shellCmd.Flags().StringVar(&shellOut, "out", "", "midi output port name or number (default from config)")
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell for building and playing a progression",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.Close()

		port := shellOut
		if port == "" {
			port = cfg.MIDI.Out
		}
		app, err := NewApp(cfg, openOutput(port))
		if err != nil {
			return err
		}
		if err := loadProgression(app.Store, cfg.ProgressionPath); err != nil {
			return err
		}
		sh := &shell{app: app, out: cmd.OutOrStdout(), path: cfg.ProgressionPath}
		app.AutoAppend(func(i int, c model.Chord) {
			fmt.Fprintf(sh.out, "\n%3d  %v\n", i, describe(c))
		})

		if shellIn != "" {
			stop, err := midi.Listen(shellIn, liveInput{app.Recognizer})
			if err != nil {
				return err
			}
			defer stop()
		}
		return sh.run()
	},
}

type shell struct {
	app  *App
	out  io.Writer
	path string
}

var errQuit = errors.New("quit")

func (sh *shell) completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("notes"),
		readline.PcItem("add"),
		readline.PcItem("list"),
		readline.PcItem("rm"),
		readline.PcItem("inv"),
		readline.PcItem("play"),
		readline.PcItem("stop"),
		readline.PcItem("seek"),
		readline.PcItem("bpm"),
		readline.PcItem("meter"),
		readline.PcItem("loop", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("metronome", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("status"),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem("clear"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func (sh *shell) run() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "chordloop> ",
		HistoryFile:  filepath.Join(homeDir, ".chordloop_history"),
		AutoComplete: sh.completer(),
	})
	if err != nil {
		return errors.Wrap(err, "could not initialize readline")
	}
	defer rl.Close()
	sh.out = rl.Stdout()

	sh.help()
	for {
		input, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "error reading input")
		}
		if err := sh.exec(input); err != nil {
			if err == errQuit {
				break
			}
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
	sh.app.Transport.Stop()
	return sh.app.Store.Save(sh.path)
}

func (sh *shell) help() {
	fmt.Fprint(sh.out, `commands:
  notes C4 E4 G4          identify notes and append the chord
  add ROOT [QUALITY] [BEATS]  append a chord, e.g. "add A m7 2"
  list                    show the progression
  rm INDEX                remove a chord
  inv INDEX N             set a chord's inversion
  play | stop             start or stop playback
  seek BEAT               set where play starts
  bpm N                   set the tempo
  meter 3/4               set the time signature
  loop on|off             toggle looping
  metronome on|off        toggle the metronome
  status                  show the transport
  save | load | clear     manage the saved progression
  quit
`)
}

// exec runs one shell line.
func (sh *shell) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]
	app := sh.app

	switch fields[0] {
	case "help", "?":
		sh.help()
	case "quit", "exit":
		return errQuit
	case "notes":
		if len(args) == 0 {
			return errors.New("usage: notes NOTE...")
		}
		c, ok := chord.Identify(args)
		if !ok {
			return errors.Errorf("no chord matches %v", strings.Join(args, " "))
		}
		i := app.Store.Append(c)
		fmt.Fprintf(sh.out, "%3d  %v\n", i, describe(c))
	case "add":
		if len(args) == 0 || len(args) > 3 {
			return errors.New("usage: add ROOT [QUALITY] [BEATS]")
		}
		quality := ""
		if len(args) > 1 {
			quality = args[1]
		}
		duration := float64(model.DefaultDuration)
		if len(args) > 2 {
			d, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return errors.Wrapf(err, "bad duration %q", args[2])
			}
			duration = d
		}
		c, err := newChord(args[0], quality, duration, 0, nil)
		if err != nil {
			return err
		}
		i := app.Store.Append(c)
		fmt.Fprintf(sh.out, "%3d  %v\n", i, describe(c))
	case "list", "ls":
		printProgression(sh.out, app.Store.Chords())
	case "rm":
		i, err := intArg(args, 0)
		if err != nil {
			return err
		}
		return app.Store.Remove(i)
	case "inv":
		i, err := intArg(args, 0)
		if err != nil {
			return err
		}
		n, err := intArg(args, 1)
		if err != nil {
			return err
		}
		return app.Store.SetInversion(i, n)
	case "play":
		if !app.StartPlayback() {
			return errors.New("already playing")
		}
	case "stop":
		app.Transport.Stop()
	case "seek":
		beat, err := floatArg(args, 0)
		if err != nil {
			return err
		}
		if !app.Transport.Seek(beat) {
			return errors.New("can't seek while playing")
		}
	case "bpm":
		bpm, err := floatArg(args, 0)
		if err != nil {
			return err
		}
		app.Tempo.SetBPM(bpm)
		fmt.Fprintf(sh.out, "bpm %v\n", app.Tempo.BPM())
	case "meter":
		if len(args) != 1 {
			return errors.New("usage: meter 3/4")
		}
		return app.Transport.SetTimeSignature(args[0])
	case "loop":
		on, err := onOff(args)
		if err != nil {
			return err
		}
		app.Transport.SetLooping(on)
	case "metronome":
		on, err := onOff(args)
		if err != nil {
			return err
		}
		app.Transport.SetMetronome(on)
	case "status":
		st := app.TransportState()
		fmt.Fprintf(sh.out, "playing=%v index=%v seek=%v total=%v bpm=%v loop=%v metronome=%v\n",
			st.Playing, st.CurrentIndex, st.SeekBeat, st.TotalBeats, st.BPM, st.Looping, st.Metronome)
	case "save":
		if err := app.Store.Save(sh.path); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "saved to %v\n", sh.path)
	case "load":
		if app.Transport.IsPlaying() {
			return errors.New("stop playback first")
		}
		return app.Store.Load(sh.path)
	case "clear":
		if app.Transport.IsPlaying() {
			return errors.New("stop playback first")
		}
		app.Store.Clear()
	default:
		return errors.Errorf("unknown command %q, try help", fields[0])
	}
	return nil
}

func intArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, errors.New("missing argument")
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, errors.Wrapf(err, "%q is not a number", args[i])
	}
	return n, nil
}

func floatArg(args []string, i int) (float64, error) {
	if i >= len(args) {
		return 0, errors.New("missing argument")
	}
	f, err := strconv.ParseFloat(args[i], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%q is not a number", args[i])
	}
	return f, nil
}

func onOff(args []string) (bool, error) {
	if len(args) == 1 {
		switch args[0] {
		case "on":
			return true, nil
		case "off":
			return false, nil
		}
	}
	return false, errors.New("expected on or off")
}
