package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/model"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveIn   string
	serveOut  string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveIn, "in", "", "midi input to recognize chords from, empty for none")
	serveCmd.Flags().StringVar(&serveOut, "out", "", "midi output port name or number (default from config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the progression and transport over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.Close()

		port := serveOut
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
		app.AutoAppend(func(i int, c model.Chord) {
			log.WithField("index", i).WithField("chord", chord.Name(c)).Info("chord appended")
		})

		if serveIn != "" {
			stop, err := midi.Listen(serveIn, liveInput{app.Recognizer})
			if err != nil {
				return err
			}
			defer stop()
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}
		return serve(app, addr)
	},
}

func serve(app *App, addr string) error {
	srv := &http.Server{Addr: addr, Handler: NewHandler(app)}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	go func() {
		<-ctx.Done()
		app.Transport.Stop()
		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		srv.Shutdown(shutdown)
	}()

	log.WithField("addr", addr).Info("serving")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server failed")
	}
	return app.Store.Save(cfg.ProgressionPath)
}

type server struct {
	app *App
}

// NewHandler returns the HTTP API for app, CORS enabled for browser
// front-ends.
func NewHandler(app *App) http.Handler {
	s := &server{app: app}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/progression", s.handleGetProgression).Methods("GET")
	router.HandleFunc("/progression", s.handleAddChord).Methods("POST")
	router.HandleFunc("/progression/{index:[0-9]+}", s.handleRemoveChord).Methods("DELETE")
	router.HandleFunc("/progression/{index:[0-9]+}/inversion", s.handleSetInversion).Methods("PUT")
	router.HandleFunc("/identify", s.handleIdentify).Methods("POST")
	router.HandleFunc("/chord", s.handleDetected).Methods("GET")
	router.HandleFunc("/transport", s.handleTransport).Methods("GET")
	router.HandleFunc("/transport", s.handleTransportSettings).Methods("PUT")
	router.HandleFunc("/transport/play", s.handlePlay).Methods("POST")
	router.HandleFunc("/transport/stop", s.handleStop).Methods("POST")
	router.HandleFunc("/transport/seek", s.handleSeek).Methods("POST")
	router.HandleFunc("/tempo", s.handleTempo).Methods("PUT")

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}).Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func readBody(r *http.Request, v any) error {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "could not read request body")
	}
	if err := json.Unmarshal(reqBody, v); err != nil {
		return errors.Wrap(err, "could not unmarshal request body")
	}
	return nil
}

func pathIndex(r *http.Request) int {
	// the route pattern only admits digits
	i, _ := strconv.Atoi(mux.Vars(r)["index"])
	return i
}

func (s *server) handleGetProgression(w http.ResponseWriter, r *http.Request) {
	chords := s.app.Store.Chords()
	if chords == nil {
		chords = model.Progression{}
	}
	writeJSON(w, http.StatusOK, chords)
}

func (s *server) handleAddChord(w http.ResponseWriter, r *http.Request) {
	var input model.AddChordRequestBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	duration := float64(model.DefaultDuration)
	if input.Duration != nil {
		duration = *input.Duration
	}
	c, err := newChord(input.Root, input.Quality, duration, input.Inversion, input.Notes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.app.Store.Append(c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *server) handleRemoveChord(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Store.Remove(pathIndex(r)); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSetInversion(w http.ResponseWriter, r *http.Request) {
	var input model.InversionRequestBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	i := pathIndex(r)
	if _, ok := s.app.Store.At(i); !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("no chord at index %d", i))
		return
	}
	if err := s.app.Store.SetInversion(i, input.Inversion); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, _ := s.app.Store.At(i)
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var input model.IdentifyRequestBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := model.IdentifyResponse{}
	if c, ok := chord.Identify(input.Notes); ok {
		res.Chord = &c
		res.Name = chord.Name(c)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleDetected(w http.ResponseWriter, r *http.Request) {
	res := model.DetectedResponse{Held: s.app.Recognizer.Held()}
	if c, ok := s.app.Recognizer.Detected(); ok {
		res.Chord = &c
	}
	if res.Held == nil {
		res.Held = []string{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleTransport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.TransportState())
}

func (s *server) handleTransportSettings(w http.ResponseWriter, r *http.Request) {
	var input model.TransportSettingsBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if input.TimeSignature != "" {
		if err := s.app.Transport.SetTimeSignature(input.TimeSignature); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if input.Looping != nil {
		s.app.Transport.SetLooping(*input.Looping)
	}
	if input.Metronome != nil {
		s.app.Transport.SetMetronome(*input.Metronome)
	}
	writeJSON(w, http.StatusOK, s.app.TransportState())
}

func (s *server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if !s.app.StartPlayback() {
		writeError(w, http.StatusConflict, errors.New("already playing"))
		return
	}
	writeJSON(w, http.StatusAccepted, s.app.TransportState())
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.app.Transport.Stop()
	writeJSON(w, http.StatusOK, s.app.TransportState())
}

func (s *server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var input model.SeekRequestBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.app.Transport.Seek(input.Beat) {
		writeError(w, http.StatusConflict, errors.New("can't seek while playing"))
		return
	}
	writeJSON(w, http.StatusOK, s.app.TransportState())
}

func (s *server) handleTempo(w http.ResponseWriter, r *http.Request) {
	var input model.TempoRequestBody
	if err := readBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.app.Tempo.SetBPM(input.BPM)
	writeJSON(w, http.StatusOK, s.app.TransportState())
}
