package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openobs/asihttp/camera"
	"github.com/openobs/asihttp/imgrec"
	"github.com/openobs/asihttp/server/middleware/locker"
	"github.com/openobs/asihttp/zwo"
	"github.com/openobs/asihttp/zwo/sdk"

	"github.com/cenkalti/backoff"
	"github.com/go-chi/chi"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	"goji.io"
	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "asi-http.yml"
	k              = koanf.New(".")
)

type recorder struct {
	// Root is the root folder to write to
	Root string `yaml:"Root"`

	// Prefix is the filename prefix to use
	Prefix string `yaml:"Prefix"`
}

type cooling struct {
	// Enabled turns the TEC on at bootup
	Enabled bool `yaml:"Enabled"`

	// Setpoint is the cooling target in Celsius
	Setpoint float64 `yaml:"Setpoint"`
}

type config struct {
	Addr           string         `yaml:"Addr"`
	Root           string         `yaml:"Root"`
	CameraName     string         `yaml:"CameraName"`
	Cooling        cooling        `yaml:"Cooling"`
	Recorder       recorder       `yaml:"Recorder"`
	BootupControls map[string]int `yaml:"BootupControls"`
}

func setupconfig() {
	k.Load(structs.Provider(config{
		Addr:       ":8000",
		Root:       "/",
		CameraName: "",
		Cooling:    cooling{Enabled: false, Setpoint: -10},
		Recorder:   recorder{},
		BootupControls: map[string]int{
			"Gain": 150,
		}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `asi-http exposes control of ZWO ASI cameras over HTTP
This enables a server-client architecture,
and the clients can leverage the excellent HTTP
libraries for any programming language,
instead of custom socket logic.

Usage:
	asi-http <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `asi-http is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used.  Keys are not case-sensitive.
The command mkconf generates the configuration file with the default values.

CameraName selects the camera by substring match against the names the SDK
enumerates, e.g. "ASI174".  An empty name takes the first camera found.

BootupControls maps control names (Gain, Gamma, Brightness, WhiteBalanceR,
WhiteBalanceB, Flip) to integer values written to the camera at startup.

If the files and folders created do not have the permissions you want on linux,
your umask is likely to blame.  asi-http makes them with permission 666, but your
umask is probably the default of 0022 which knocks them down to 444.  Set your
umask to 0000 before running asi-http to solve this.`
	fmt.Println(str)
}

func mkconf() {
	c := config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	err = yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("asi-http version %v\n", Version)
}

// subMuxSanitize ensures the submux root begins with a slash and does not
// end with one, the shape chi's Mount wants
func subMuxSanitize(s string) string {
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	if len(s) > 1 {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

func run() {
	cfg := config{}
	k.Unmarshal("", &cfg)

	n, err := sdk.Preflight()
	if err != nil {
		log.Printf("USB preflight failed: %v", err)
	} else if n == 0 {
		log.Println("no ZWO devices on the USB bus; is the camera plugged in and powered?")
	}

	// the SDK sometimes needs a beat after the camera enumerates on USB
	var dev *sdk.Camera
	boff := backoff.NewExponentialBackOff()
	boff.MaxElapsedTime = 30 * time.Second
	err = backoff.Retry(func() error {
		var err error
		dev, err = sdk.OpenByName(cfg.CameraName)
		return err
	}, boff)
	if err != nil {
		log.Fatal(err)
	}

	cam, err := zwo.New(dev)
	if err != nil {
		log.Fatal(err)
	}
	defer cam.Close()
	info := cam.Info()
	log.Printf("connected to %s, %dx%d, %.2f um pixels", info.Name, info.MaxWidth, info.MaxHeight, info.PixelSizeUM)

	if len(cfg.BootupControls) > 0 {
		if err := cam.Configure(cfg.BootupControls); err != nil {
			log.Fatal(err)
		}
	}

	var pt camera.PictureTaker = cam
	if info.HasCooler {
		cool, err := zwo.NewCooler(cam)
		if err != nil {
			log.Fatal(err)
		}
		if cfg.Cooling.Enabled {
			if err := cool.Enable(cfg.Cooling.Setpoint); err != nil {
				log.Fatal(err)
			}
			log.Printf("cooling to %.1f C", cfg.Cooling.Setpoint)
		}
		pt = cool
	}

	args := cfg.Recorder
	r := &imgrec.Recorder{Root: args.Root, Prefix: args.Prefix, Enabled: args.Root != ""}
	w := camera.NewHTTPCamera(pt, r)
	l := locker.New()
	locker.Inject(w, l)

	mux := goji.NewMux()
	mux.Use(l.Check)
	w.RT().Bind(mux)
	rootR := chi.NewRouter()
	rootR.Mount(subMuxSanitize(cfg.Root), mux)
	log.Println("now listening for requests at", cfg.Addr+cfg.Root)
	log.Fatal(http.ListenAndServe(cfg.Addr, rootR))
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "run":
		run()
		return
	case "version":
		pversion()
		return
	default:
		log.Fatal("unknown command")
	}
}
