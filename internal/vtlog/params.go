package vtlog

const (
	maxParams     = 16
	maxParamValue = 9999
	omitted       = -1
)

// params holds the numeric arguments of a CSI sequence. An empty field is
// stored as omitted so handlers can apply their own default.
type params []int

// parseParams reads "n;n;..." from body. It reports false when body holds
// anything but digits and separators.
func parseParams(body []byte) (params, bool) {
	if len(body) == 0 {
		return nil, true
	}
	p := make(params, 0, 4)
	cur := omitted
	for _, b := range body {
		switch {
		case b >= '0' && b <= '9':
			if cur == omitted {
				cur = 0
			}
			cur = cur*10 + int(b-'0')
			if cur > maxParamValue {
				cur = maxParamValue
			}
		case b == paramSep:
			if len(p) < maxParams {
				p = append(p, cur)
			}
			cur = omitted
		default:
			return nil, false
		}
	}
	if len(p) < maxParams {
		p = append(p, cur)
	}
	return p, true
}

// At returns parameter i, or def when it is absent or omitted.
func (p params) At(i, def int) int {
	if i >= len(p) || p[i] == omitted {
		return def
	}
	return p[i]
}

// count is At(i, 1) with 0 also meaning 1, as movement and editing
// sequences expect.
func (p params) count(i int) int {
	if n := p.At(i, 1); n > 0 {
		return n
	}
	return 1
}

// values returns every parameter with omitted fields read as 0.
func (p params) values() []int {
	out := make([]int, len(p))
	for i := range p {
		out[i] = p.At(i, 0)
	}
	return out
}
