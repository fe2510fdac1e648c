package camera

import (
	"encoding/json"
	"go/types"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/openobs/asihttp/imgrec"
	"github.com/openobs/asihttp/server"
	"github.com/openobs/asihttp/util"

	"github.com/astrogo/fitsio"
	"goji.io/pat"
)

// DefaultExposureTime is used by /image when the client has never
// supplied an exposure time
const DefaultExposureTime = 100 * time.Millisecond

// HTTPCamera wraps a PictureTaker in an HTTP route table.  Routes beyond
// basic capture are bound only when the wrapped driver implements the
// matching capability interface.
//
// Exposures are serialized with a mutex; a second capture request waits for
// the one in flight instead of double-starting the device.
type HTTPCamera struct {
	p PictureTaker

	rec *imgrec.Recorder

	rt server.RouteTable

	// StreamInterval is the cadence of the temperature websocket stream
	StreamInterval time.Duration

	mu sync.Mutex

	texp time.Duration
}

// NewHTTPCamera returns an HTTP wrapper around a picture taker with the
// route table populated.  rec may be nil to disable auto-recording.
func NewHTTPCamera(p PictureTaker, rec *imgrec.Recorder) *HTTPCamera {
	h := &HTTPCamera{p: p, rec: rec, texp: DefaultExposureTime, StreamInterval: time.Second}
	rt := server.RouteTable{
		pat.Get("/image"):          h.GetFrame,
		pat.Get("/exposure-time"):  h.GetExposureTime,
		pat.Post("/exposure-time"): h.SetExposureTime,
	}
	if w, ok := p.(WindowManager); ok {
		rt[pat.Get("/window")] = h.GetWindow(w)
		rt[pat.Post("/window")] = h.SetWindow(w)
		rt[pat.Get("/full-frame")] = h.GetFullFrame(w)
	}
	if b, ok := p.(Binner); ok {
		rt[pat.Get("/binning")] = h.GetBinning(b)
		rt[pat.Post("/binning")] = h.SetBinning(b)
		rt[pat.Get("/binning-options")] = h.GetBinningOptions(b)
	}
	if f, ok := p.(ImageFormatter); ok {
		rt[pat.Get("/image-format")] = server.GetString(func() (string, error) {
			pf, err := f.GetImageFormat()
			return pf.String(), err
		})
		rt[pat.Post("/image-format")] = server.SetString(func(s string) error {
			pf, err := ParseImageFormat(s)
			if err != nil {
				return err
			}
			return f.SetImageFormat(pf)
		})
		rt[pat.Get("/image-format-options")] = h.GetImageFormatOptions(f)
	}
	if t, ok := p.(ThermalManager); ok {
		rt[pat.Get("/sensor-cooling")] = server.GetBool(t.GetCooling)
		rt[pat.Post("/sensor-cooling")] = server.SetBool(t.SetCooling)
		rt[pat.Get("/temperature")] = server.GetFloat(t.GetTemperature)
		rt[pat.Get("/temperature-setpoint")] = server.GetFloat(t.GetTemperatureSetpoint)
		rt[pat.Post("/temperature-setpoint")] = server.SetFloat(t.SetTemperatureSetpoint)
		rt[pat.Get("/cooler-power")] = server.GetFloat(t.GetCoolerPower)
		rt[pat.Get("/temperature-stream")] = h.StreamTemperature(t)
	}
	h.rt = rt
	if rec != nil {
		rec.Inject(h)
	}
	return h
}

// RT yields the route table for binding or middleware injection
func (h *HTTPCamera) RT() server.RouteTable {
	return h.rt
}

// GetExposureTime gets the exposure time used when /image is requested
// without one
func (h *HTTPCamera) GetExposureTime(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	f := h.texp
	h.mu.Unlock()
	hp := server.HumanPayload{T: types.Float64, Float: f.Seconds()}
	hp.EncodeAndRespond(w, r)
}

// SetExposureTime sets the exposure time on a POST request.  It can be
// provided either as a query parameter exposureTime, formatted in a way
// parseable by time.ParseDuration, or a json payload with key f64 holding
// the exposure time in seconds.
func (h *HTTPCamera) SetExposureTime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	texp := q.Get("exposureTime")
	var d time.Duration
	var err error
	if texp == "" {
		f := server.FloatT{}
		err = json.NewDecoder(r.Body).Decode(&f)
		d = util.SecsToDuration(f.F64)
	} else {
		d, err = time.ParseDuration(texp)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if d <= 0 {
		http.Error(w, "exposure time must be positive", http.StatusBadRequest)
		return
	}
	h.mu.Lock()
	h.texp = d
	h.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetFrame takes a picture and returns it on a GET request.
//
// the image format may be specified in a query parameter; default to jpg
//
// the exposure time may be specified as a query parameter in any
// time-looking format, such as "25ms" or "10us".  Strictly speaking, it
// must be a valid input to time.ParseDuration.
//
// if no unit is appended, s (seconds) is assumed.
//
// if no exposure time is provided, the stored one is used.
func (h *HTTPCamera) GetFrame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	texpS := q.Get("exposureTime")
	h.mu.Lock()
	texp := h.texp
	h.mu.Unlock()
	if texpS != "" {
		if util.AllElementsNumbers(texpS) {
			texpS = texpS + "s"
		}
		var err error
		texp, err = time.ParseDuration(texpS)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	h.mu.Lock()
	frame, err := h.p.Expose(r.Context(), texp, true)
	h.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	format := q.Get("fmt")
	if format == "" {
		format = "jpg"
	}
	switch format {
	case "jpg":
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
		jpeg.Encode(w, ToImage(frame), nil)
	case "png":
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		png.Encode(w, ToImage(frame))
	case "fits":
		var w2 io.Writer = w
		if h.rec != nil && h.rec.Enabled && h.rec.Root != "" {
			w2 = io.MultiWriter(w, h.rec)
			defer h.rec.Incr()
		}
		var cards []fitsio.Card
		if carder, ok := h.p.(MetadataMaker); ok {
			cards = carder.CollectHeaderMetadata()
		}
		hdr := w.Header()
		hdr.Set("Content-Type", "image/fits")
		hdr.Set("Content-Disposition", "attachment; filename=image.fits")
		err = WriteFits(w2, frame, cards...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	default:
		http.Error(w, "fmt must be one of jpg, png, fits", http.StatusBadRequest)
	}
}

// GetWindow returns the current window as JSON
func (h *HTTPCamera) GetWindow(wm WindowManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aoi, err := wm.GetWindow()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(aoi)
	}
}

// SetWindow sets the window from a JSON payload
func (h *HTTPCamera) SetWindow(wm WindowManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aoi := AOI{}
		err := json.NewDecoder(r.Body).Decode(&aoi)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = wm.SetWindow(aoi)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetFullFrame returns the whole-sensor window as JSON
func (h *HTTPCamera) GetFullFrame(wm WindowManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aoi, err := wm.FullFrame()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(aoi)
	}
}

// GetBinning returns the current binning as JSON
func (h *HTTPCamera) GetBinning(b Binner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bin, err := b.GetBinning()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bin)
	}
}

// SetBinning sets the binning from a JSON payload
func (h *HTTPCamera) SetBinning(b Binner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bin := Binning{}
		err := json.NewDecoder(r.Body).Decode(&bin)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = b.SetBinning(bin)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetBinningOptions returns the supported binnings as JSON
func (h *HTTPCamera) GetBinningOptions(b Binner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := b.ListBinnings()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(opts)
	}
}

// GetImageFormatOptions returns the supported pixel formats as JSON
func (h *HTTPCamera) GetImageFormatOptions(f ImageFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := f.ListImageFormats()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		strs := make([]string, len(opts))
		for i, o := range opts {
			strs[i] = o.String()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(strs)
	}
}
