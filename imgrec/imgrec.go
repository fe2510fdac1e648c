// Package imgrec contains an image recorder used to automatically save
// FITS images to disk.
package imgrec

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/openobs/asihttp/server"

	"goji.io/pat"
)

// Recorder records image sequences with incrementing filenames in
// yyyy-mm-dd subfolders.  It is not thread safe.
type Recorder struct {
	// counter is the internally incrementing counter
	counter int

	// Root is the root path
	Root string

	// Prefix is the prefix for the filenames
	Prefix string

	// Enabled allows consumers to disable the recorder without
	// discarding its configuration
	Enabled bool
}

// folder returns the dated subfolder for this moment, creating it if needed
func (r *Recorder) folder() (string, error) {
	now := time.Now()
	fldr := path.Join(r.Root, fmt.Sprintf("%04d-%02d-%02d", now.Year(), now.Month(), now.Day()))
	err := os.MkdirAll(fldr, 0777)
	return fldr, err
}

// Write implements io.Writer and appends the contents of a FITS file to
// the file named by the current prefix and counter
func (r *Recorder) Write(p []byte) (int, error) {
	fldr, err := r.folder()
	if err != nil {
		return 0, err
	}
	fn := path.Join(fldr, fmt.Sprintf("%s%06d.fits", r.Prefix, r.counter))
	fid, err := os.OpenFile(fn, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0666)
	if err != nil {
		return 0, err
	}
	defer fid.Close()
	return fid.Write(p)
}

// Incr advances the filename counter past the largest index already on
// disk.  Call it after the last Write of a file.  On error the counter is
// left alone.
func (r *Recorder) Incr() {
	dn, err := r.folder()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(dn)
	if err != nil {
		return
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fn := entry.Name()
		if !strings.HasSuffix(fn, ".fits") || !strings.HasPrefix(fn, r.Prefix) {
			continue
		}
		bit := strings.TrimSuffix(strings.TrimPrefix(fn, r.Prefix), ".fits")
		n, err := strconv.Atoi(bit)
		if err != nil {
			continue
		}
		if n > count {
			count = n
		}
	}
	r.counter = count + 1
}

// Inject adds routes to the HTTPer which manipulate this recorder's root
// folder, filename prefix, and enabled flag on the fly
func (r *Recorder) Inject(other server.HTTPer) {
	rt := other.RT()
	rt[pat.Get("/autowrite/root")] = server.GetString(func() (string, error) { return r.Root, nil })
	rt[pat.Post("/autowrite/root")] = server.SetString(func(s string) error {
		r.Root = s
		_, err := r.folder()
		return err
	})
	rt[pat.Get("/autowrite/prefix")] = server.GetString(func() (string, error) { return r.Prefix, nil })
	rt[pat.Post("/autowrite/prefix")] = server.SetString(func(s string) error {
		r.Prefix = s
		r.counter = 0
		return nil
	})
	rt[pat.Get("/autowrite/enabled")] = server.GetBool(func() (bool, error) { return r.Enabled, nil })
	rt[pat.Post("/autowrite/enabled")] = server.SetBool(func(b bool) error {
		r.Enabled = b
		return nil
	})
}
