package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var fontRefPattern = regexp.MustCompile(`/F(\d+) (\d+) 0 R`)

// canonicalizePDF normaliza el documento ya generado para que renders
// repetidos del mismo registro produzcan bytes idénticos. El escritor PDF
// bajo Maroto asigna los números de objeto de las fuentes iterando un map,
// así que cada render puede emitir las fuentes en distinto orden y con
// distinta numeración. Aquí se ordenan las entradas del diccionario /Font
// por índice, se renumeran los objetos de fuente en ese mismo orden y se
// reconstruye la tabla xref. Bytes sin la estructura esperada (una sola
// tabla xref con el trailer al final) se devuelven sin tocar.
func canonicalizePDF(raw []byte) []byte {
	doc, ok := parseXrefDoc(raw)
	if !ok {
		return raw
	}
	doc.normalizeFonts()
	return doc.assemble()
}

type xrefObject struct {
	num  int
	body []byte // desde "N 0 obj" hasta el inicio del siguiente objeto
}

// xrefDoc vista mínima de un PDF clásico: cabecera, objetos indirectos y el
// diccionario del trailer tal cual venía.
type xrefDoc struct {
	header  []byte
	objects []xrefObject
	trailer []byte
	size    int
}

func parseXrefDoc(raw []byte) (*xrefDoc, bool) {
	sx := bytes.LastIndex(raw, []byte("startxref"))
	if sx < 0 {
		return nil, false
	}
	xrefOff, _, ok := scanInt(raw, sx+len("startxref"))
	if !ok || xrefOff <= 0 || xrefOff >= len(raw) || !bytes.HasPrefix(raw[xrefOff:], []byte("xref")) {
		return nil, false
	}

	// Subsección única "0 N" seguida de N entradas de 20 bytes.
	first, p, ok := scanInt(raw, xrefOff+len("xref"))
	if !ok || first != 0 {
		return nil, false
	}
	size, p, ok := scanInt(raw, p)
	if !ok || size < 2 {
		return nil, false
	}
	for p < len(raw) && (raw[p] == ' ' || raw[p] == '\r' || raw[p] == '\n') {
		p++
	}
	if p+20*size > len(raw) {
		return nil, false
	}

	type ref struct{ num, off int }
	refs := make([]ref, 0, size-1)
	for i := 0; i < size; i++ {
		entry := raw[p+20*i : p+20*(i+1)]
		if entry[17] != 'n' {
			continue
		}
		off, err := strconv.Atoi(string(entry[:10]))
		if err != nil || off >= xrefOff {
			return nil, false
		}
		refs = append(refs, ref{num: i, off: off})
	}
	if len(refs) == 0 {
		return nil, false
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].off < refs[j].off })

	doc := &xrefDoc{header: raw[:refs[0].off], size: size}
	for i, r := range refs {
		end := xrefOff
		if i+1 < len(refs) {
			end = refs[i+1].off
		}
		body := raw[r.off:end]
		if n, _, bodyOK := scanInt(body, 0); !bodyOK || n != r.num {
			return nil, false
		}
		doc.objects = append(doc.objects, xrefObject{num: r.num, body: body})
	}

	ti := bytes.Index(raw[xrefOff:sx], []byte("trailer"))
	if ti < 0 {
		return nil, false
	}
	doc.trailer = raw[xrefOff+ti+len("trailer") : sx]
	return doc, true
}

// normalizeFonts ordena las entradas del diccionario /Font por su índice /F
// y permuta los números de objeto de las fuentes para que el índice menor
// ocupe el número menor. Las fuentes solo se referencian desde ese
// diccionario, así que la permutación no afecta a ningún otro objeto.
func (d *xrefDoc) normalizeFonts() {
	ri := -1
	for i := range d.objects {
		if bytes.Contains(d.objects[i].body, []byte("/Font <<")) {
			ri = i
			break
		}
	}
	if ri < 0 {
		return
	}
	body := d.objects[ri].body
	open := bytes.Index(body, []byte("/Font <<")) + len("/Font <<")
	end := bytes.Index(body[open:], []byte(">>"))
	if end < 0 {
		return
	}
	region := body[open : open+end]

	matches := fontRefPattern.FindAllSubmatch(region, -1)
	if len(matches) == 0 {
		return
	}
	type fontRef struct{ idx, num int }
	refs := make([]fontRef, 0, len(matches))
	slots := make([]int, 0, len(matches))
	for _, m := range matches {
		idx, _ := strconv.Atoi(string(m[1]))
		num, _ := strconv.Atoi(string(m[2]))
		refs = append(refs, fontRef{idx: idx, num: num})
		slots = append(slots, num)
	}
	sort.Ints(slots)
	sort.Slice(refs, func(i, j int) bool { return refs[i].idx < refs[j].idx })

	renum := make(map[int]int, len(refs))
	var entries bytes.Buffer
	for k, r := range refs {
		renum[r.num] = slots[k]
		fmt.Fprintf(&entries, "\n/F%d %d 0 R", r.idx, slots[k])
	}
	entries.WriteByte('\n')

	var nb bytes.Buffer
	nb.Write(body[:open])
	nb.Write(entries.Bytes())
	nb.Write(body[open+end:])
	d.objects[ri].body = nb.Bytes()

	for i := range d.objects {
		if nn, ok := renum[d.objects[i].num]; ok && nn != d.objects[i].num {
			d.objects[i].body = rewriteObjNum(d.objects[i].body, nn)
			d.objects[i].num = nn
		}
	}
	sort.Slice(d.objects, func(i, j int) bool { return d.objects[i].num < d.objects[j].num })
}

// assemble reconstruye el documento con los offsets recalculados. Sobre un
// documento sin permutar devuelve exactamente los bytes de entrada.
func (d *xrefDoc) assemble() []byte {
	var out bytes.Buffer
	out.Write(d.header)

	offsets := make(map[int]int, len(d.objects))
	for _, o := range d.objects {
		offsets[o.num] = out.Len()
		out.Write(o.body)
	}

	xrefOff := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", d.size)
	for n := 0; n < d.size; n++ {
		if off, ok := offsets[n]; ok {
			fmt.Fprintf(&out, "%010d 00000 n \n", off)
		} else {
			out.WriteString("0000000000 65535 f \n")
		}
	}
	out.WriteString("trailer")
	out.Write(d.trailer)
	fmt.Fprintf(&out, "startxref\n%d\n%%%%EOF\n", xrefOff)
	return out.Bytes()
}

func rewriteObjNum(body []byte, num int) []byte {
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	out := make([]byte, 0, len(body))
	out = append(out, strconv.Itoa(num)...)
	return append(out, body[i:]...)
}

// scanInt salta espacios y saltos de línea y lee un entero decimal.
func scanInt(b []byte, p int) (val, next int, ok bool) {
	for p < len(b) && (b[p] == ' ' || b[p] == '\r' || b[p] == '\n') {
		p++
	}
	q := p
	for q < len(b) && b[q] >= '0' && b[q] <= '9' {
		q++
	}
	if q == p {
		return 0, p, false
	}
	n, err := strconv.Atoi(string(b[p:q]))
	if err != nil {
		return 0, p, false
	}
	return n, q, true
}
