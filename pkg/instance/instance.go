package instance

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/floorpack/pkg/errors"
)

// Module is a rectangle to be placed on the board.
type Module struct {
	Width  int `json:"w" bson:"w"`
	Height int `json:"h" bson:"h"`
}

// Area returns Width*Height.
func (m Module) Area() int { return m.Width * m.Height }

// Rotated returns the module turned by 90 degrees.
func (m Module) Rotated() Module { return Module{Width: m.Height, Height: m.Width} }

// Square reports whether rotation leaves the module unchanged.
func (m Module) Square() bool { return m.Width == m.Height }

// FitsIn reports whether the module fits a w×h box without rotation.
func (m Module) FitsIn(w, h int) bool { return m.Width <= w && m.Height <= h }

// Instance is a board width plus the modules to pack on it.
type Instance struct {
	Name    string   `json:"name,omitempty" bson:"name,omitempty"`
	Width   int      `json:"width" bson:"width"`
	Modules []Module `json:"modules" bson:"modules"`
}

// N returns the number of modules.
func (in *Instance) N() int { return len(in.Modules) }

// TotalArea returns the summed area of all modules.
func (in *Instance) TotalArea() int {
	total := 0
	for _, m := range in.Modules {
		total += m.Area()
	}
	return total
}

// Validate checks the invariants that Parse enforces, for instances built in
// code or decoded from JSON.
func (in *Instance) Validate() error {
	if in.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "board width must be positive, got %d", in.Width)
	}
	if len(in.Modules) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "instance has no modules")
	}
	for i, m := range in.Modules {
		if m.Width <= 0 || m.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "module %d has non-positive dimensions %dx%d", i, m.Width, m.Height)
		}
	}
	return nil
}

// Hash returns a stable content hash of the board and modules. The name is
// not part of the hash so renamed copies share cache entries.
func (in *Instance) Hash() string {
	var buf bytes.Buffer
	_ = Write(&buf, in)
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// Parse reads an instance from r. The source name is used in error messages.
func Parse(r io.Reader, source string) (*Instance, error) {
	if source == "" {
		source = "<input>"
	}

	type line struct {
		no     int
		fields []string
	}
	var lines []line
	sc := bufio.NewScanner(r)
	no := 0
	for sc.Scan() {
		no++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, line{no: no, fields: fields})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read %s", source)
	}
	if len(lines) < 2 {
		return nil, errors.Parse(source, 0, "expected board width and module count")
	}

	scalar := func(l line, what string) (int, error) {
		if len(l.fields) != 1 {
			return 0, errors.Parse(source, l.no, "expected a single %s, got %d fields", what, len(l.fields))
		}
		v, err := strconv.Atoi(l.fields[0])
		if err != nil {
			return 0, errors.Parse(source, l.no, "%s %q is not an integer", what, l.fields[0])
		}
		return v, nil
	}

	width, err := scalar(lines[0], "board width")
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, errors.Parse(source, lines[0].no, "board width must be positive, got %d", width)
	}
	n, err := scalar(lines[1], "module count")
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.Parse(source, lines[1].no, "module count must be positive, got %d", n)
	}

	dims := lines[2:]
	if len(dims) != n {
		return nil, errors.Parse(source, 0, "declared %d modules but found %d dimension lines", n, len(dims))
	}

	in := &Instance{Name: nameFromSource(source), Width: width, Modules: make([]Module, n)}
	for i, l := range dims {
		if len(l.fields) != 2 {
			return nil, errors.Parse(source, l.no, "expected \"<width> <height>\", got %d fields", len(l.fields))
		}
		w, err := strconv.Atoi(l.fields[0])
		if err != nil {
			return nil, errors.Parse(source, l.no, "module width %q is not an integer", l.fields[0])
		}
		h, err := strconv.Atoi(l.fields[1])
		if err != nil {
			return nil, errors.Parse(source, l.no, "module height %q is not an integer", l.fields[1])
		}
		if w <= 0 || h <= 0 {
			return nil, errors.Parse(source, l.no, "module dimensions must be positive, got %dx%d", w, h)
		}
		in.Modules[i] = Module{Width: w, Height: h}
	}
	return in, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s, source string) (*Instance, error) {
	return Parse(strings.NewReader(s), source)
}

// ReadFile parses the instance stored at path.
func ReadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "instance %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "open %s", path)
	}
	defer f.Close()
	return Parse(f, path)
}

// Write renders the instance in the text format accepted by Parse.
func Write(w io.Writer, in *Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", in.Width, len(in.Modules))
	for _, m := range in.Modules {
		fmt.Fprintf(bw, "%d %d\n", m.Width, m.Height)
	}
	return bw.Flush()
}

func nameFromSource(source string) string {
	if strings.HasPrefix(source, "<") {
		return ""
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
