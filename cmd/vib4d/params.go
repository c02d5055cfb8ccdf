package main

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
	"github.com/taigrr/vib4d/pkg/scene"
)

// paramFlags exposes every scene parameter as a flag. Flags override the
// --params file, which overrides the defaults.
type paramFlags struct {
	file       string
	autorotate bool
	values     map[string]*float64 // by field name
	flags      map[string]string   // field name -> flag name
	set        *pflag.FlagSet
}

func newParamFlags() *paramFlags {
	return &paramFlags{values: make(map[string]*float64), flags: make(map[string]string)}
}

// flagName turns "gridDensity" into "grid-density". Rotation angles drop
// their prefix: "rot4dXW" is --xw.
func flagName(field string) string {
	if plane, ok := strings.CutPrefix(field, "rot4d"); ok {
		return strings.ToLower(plane)
	}
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (pf *paramFlags) register(fs *pflag.FlagSet) {
	pf.set = fs
	def := scene.Defaults()
	fs.StringVar(&pf.file, "params", "", "JSON file of parameter overrides")
	fs.BoolVar(&pf.autorotate, "autorotate", def.Autorotate, "spin the XW, YW and ZW planes with time")
	for _, r := range scene.Ranges() {
		v, _ := def.Field(r.Name)
		usage := r.Name
		if r.Unit != "" {
			usage += " in " + r.Unit
		}
		if !r.Unbounded {
			usage += fmt.Sprintf(" (%g to %g)", r.Min, r.Max)
		}
		name := flagName(r.Name)
		pf.values[r.Name] = fs.Float64(name, v, usage)
		pf.flags[r.Name] = name
	}
}

// params builds the validated parameters.
func (pf *paramFlags) params() (scene.Params, error) {
	p := scene.Defaults()
	if pf.file != "" {
		f, err := os.Open(pf.file)
		if err != nil {
			return p, err
		}
		u, err := scene.PartialFromJSON(f)
		f.Close()
		if err != nil {
			return p, fmt.Errorf("%s: %w", pf.file, err)
		}
		if err := p.Merge(u); err != nil {
			return p, fmt.Errorf("%s: %w", pf.file, err)
		}
		logger.Debug("loaded params", "file", pf.file, "fields", len(u.Values))
	}

	var u scene.Partial
	for field, name := range pf.flags {
		if pf.set.Changed(name) {
			u = u.Set(field, *pf.values[field])
		}
	}
	if pf.set.Changed("autorotate") {
		u.Autorotate = &pf.autorotate
	}
	if err := p.Merge(u); err != nil {
		return p, err
	}
	return p, nil
}
