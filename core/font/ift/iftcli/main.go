/*
Command iftcli is an interactive client for inspecting incrementally
transferred fonts.

It loads a font, either from a file or by system font name, and lets the user
navigate its patch map tables, define a subset, select the next patches to
fetch and load their data from a local patch directory.

	iftcli -font myfont-ift.ttf -patches ./patches

Applying patches is left to tools which implement the patch formats.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/ift/core"
	"github.com/npillmayer/ift/core/font/ift"
	"github.com/npillmayer/ift/core/font/ift/patchgroup"
	"github.com/npillmayer/ift/core/font/opentype/ot"
	"github.com/npillmayer/ift/core/font/opentype/otquery"
	"github.com/npillmayer/ift/core/locate/resources"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'ift.patches'
func tracer() tracing.Trace {
	return tracing.Select("ift.patches")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (file path or system font name)")
	patchdir := flag.String("patches", "", "Directory to load patch files from")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.ift.patches":   *tlevel,
		"trace.ift.fonts":     *tlevel,
		"trace.ift.resources": *tlevel,
		"patches":             *patchdir,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the IFT client") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up REPL
	repl, err := readline.New("ift > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{
		repl:   repl,
		conf:   conf,
		stack:  make([]pathNode, 0, 100),
		status: make(map[string]patchgroup.URIStatus),
	}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		core.UserError(err)
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                             // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

type pathNode struct {
	table    ot.Table
	location ot.Navigator
}

// Intp is our interpreter object
type Intp struct {
	font     *ot.Font
	repl     *readline.Instance
	conf     testconfig.Conf
	table    ot.Table
	stack    []pathNode
	text     []rune
	features []ot.Tag
	group    *patchgroup.PatchGroup
	status   map[string]patchgroup.URIStatus
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		quit, err := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a single step of a command line.
type Op struct {
	code int
	arg  string
}

// Command is a sequence of steps, separated by blanks.
type Command struct {
	count int
	op    [32]Op
}

const (
	QUIT int = iota
	HELP
	NAVIGATE
	TABLE
	LIST
	INFO
	TEXT
	FEATURES
	SELECT
	FETCH
	STATUS
)

func (intp *Intp) parseCommand(line string) (*Command, error) {
	command := &Command{}
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many steps in command: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		if step == "->" { // navigate
			command.op[i].code = NAVIGATE
			continue
		}
		c := strings.SplitN(step, ":", 2) // e.g.  "table:IFTX" or "list:5" or "text:abc"
		command.op[i].arg = getOptArg(c, 1)
		switch strings.ToLower(c[0]) {
		case "quit":
			command.op[i].code = QUIT
		case "table":
			command.op[i].code = TABLE
		case "list":
			command.op[i].code = LIST
		case "info":
			command.op[i].code = INFO
		case "text":
			command.op[i].code = TEXT
		case "features":
			command.op[i].code = FEATURES
		case "select":
			command.op[i].code = SELECT
		case "fetch":
			command.op[i].code = FETCH
		case "status":
			command.op[i].code = STATUS
		default:
			command.op[i].code = HELP
		}
		tracer().Debugf("parse command = %v", c)
	}
	return command, nil
}

func (intp *Intp) execute(cmd *Command) (bool, error) {
	for _, c := range cmd.op[:cmd.count] {
		var err error
		switch c.code {
		case QUIT:
			return true, nil
		case HELP:
			help(c.arg)
		case INFO:
			intp.info()
		case TABLE:
			if intp.table = intp.font.Table(ot.T(c.arg)); intp.table == nil {
				return false, fmt.Errorf("font has no table '%s'", c.arg)
			}
			intp.stack = append(intp.stack[:0], pathNode{table: intp.table, location: intp.table.Fields()})
			tracer().Infof("setting table: %v", c.arg)
		case NAVIGATE:
			err = intp.navigate()
		case LIST:
			err = intp.list(c.arg)
		case TEXT:
			intp.text = append(intp.text, []rune(c.arg)...)
			pterm.Printfln("subset definition has %d code-points", len(ift.Codepoints(intp.text...).Codepoints()))
		case FEATURES:
			intp.features = intp.features[:0]
			for _, f := range strings.Split(c.arg, ",") {
				if f != "" {
					intp.features = append(intp.features, ot.T(f))
				}
			}
			pterm.Printfln("features = %v", intp.features)
		case SELECT:
			err = intp.selectPatches()
		case FETCH:
			err = intp.fetch()
		case STATUS:
			intp.printStatus()
		}
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

func (intp *Intp) navigate() error {
	if intp.table == nil {
		return errors.New("cannot walk without table being set")
	}
	l := intp.lastPathNode().location.Link()
	if l == nil || l.IsNull() {
		return errors.New("no link to walk")
	}
	n := pathNode{location: l.Navigate()}
	intp.stack = append(intp.stack, n)
	pterm.Printfln("walked to %s", n.location.Name())
	return nil
}

func (intp *Intp) list(arg string) error {
	if intp.table == nil {
		return errors.New("cannot list without table being set")
	}
	l := intp.lastPathNode().location.List()
	if arg == "" {
		pterm.Printfln("%s list has %d entries", l.Name(), l.Len())
		return nil
	}
	i, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("list index not numeric: %v", arg)
	}
	loc := l.Get(i)
	switch value := decodeLocation(loc, l.Name()).(type) {
	case int:
		pterm.Printfln("%s list index %d holds number = %d", l.Name(), i, value)
	case ot.Tag:
		pterm.Printfln("%s list index %d holds tag = %s", l.Name(), i, value)
	default:
		pterm.Printfln("%s list index %d holds data of %d bytes", l.Name(), i, loc.Size())
	}
	return nil
}

func (intp *Intp) info() {
	n, _ := intp.font.NumGlyphs()
	pterm.Printfln("font type: %s, %d glyphs, %d units per em", otquery.FontType(intp.font),
		n, otquery.UnitsPerEm(intp.font))
	pterm.Printfln("font tables: %v", intp.font.TableTags())
	if !otquery.IsIncremental(intp.font) {
		pterm.Info.Println("font has no patch maps")
		return
	}
	data := pterm.TableData{{"Table", "Format", "Compatibility ID", "Entries", "Applied", "Encoding", "Template"}}
	for _, pm := range otquery.PatchMaps(intp.font) {
		if pm.Err != nil {
			data = append(data, []string{pm.Tag.String(), "-", pm.Err.Error(), "", "", "", ""})
			continue
		}
		data = append(data, []string{
			pm.Tag.String(),
			strconv.Itoa(int(pm.Format)),
			pm.CompatibilityID.String(),
			strconv.Itoa(int(pm.MaxEntryIndex)),
			strconv.Itoa(pm.AppliedEntries),
			strconv.Itoa(int(pm.PatchEncoding)),
			pm.URITemplate,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

func (intp *Intp) selectPatches() error {
	sd := ift.NewSubsetDefinition(intp.text, intp.features)
	pg, err := patchgroup.SelectNextPatches(intp.font, sd)
	if pg == nil {
		return err
	}
	if err != nil {
		pterm.Warning.Printfln("patch maps partially unusable: %v", err)
	}
	intp.group = pg
	if !pg.HasURIs() {
		pterm.Info.Println("no patches needed for subset definition")
		return nil
	}
	pterm.Printfln("selected group %s", pg.Group())
	items := make([]pterm.BulletListItem, 0, len(pg.URIs()))
	for _, uri := range pg.URIs() {
		items = append(items, pterm.BulletListItem{Level: 0, Text: uri})
	}
	return pterm.DefaultBulletList.WithItems(items).Render()
}

func (intp *Intp) fetch() error {
	if intp.group == nil {
		return errors.New("no patches selected")
	}
	var uris []string
	for _, uri := range intp.group.URIs() {
		if st, ok := intp.status[uri]; !ok || !st.IsApplied() {
			uris = append(uris, uri)
		}
	}
	patches, err := resources.ResolvePatches(intp.conf, uris).Patches()
	for uri, data := range patches {
		intp.status[uri] = patchgroup.Pending(data)
	}
	if core.Code(err) == core.EMISSING {
		pterm.Warning.Println(core.UserMessage(err))
		err = nil
	}
	intp.printStatus()
	return err
}

func (intp *Intp) printStatus() {
	uris := make([]string, 0, len(intp.status))
	for uri := range intp.status {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	data := pterm.TableData{{"URI", "Status"}}
	for _, uri := range uris {
		data = append(data, []string{uri, intp.status[uri].String()})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

func (intp *Intp) loadFont(fontname string) (err error) {
	if fontname == "" {
		return core.Error(core.EINVALID, "no font given; use flag -font")
	}
	intp.font, err = resources.ResolveFont(fontname).Font()
	if err == nil {
		pterm.Printfln("font tables: %v", intp.font.TableTags())
	}
	return
}

func (intp *Intp) lastPathNode() pathNode {
	if len(intp.stack) == 0 {
		return pathNode{}
	}
	return intp.stack[len(intp.stack)-1]
}

func decodeLocation(loc ot.NavLocation, name string) interface{} {
	if loc == nil {
		return nil
	}
	if name == "FeatureMap" && loc.Size() == 6 {
		return ot.Tag(loc.U32(0))
	}
	switch loc.Size() {
	case 1:
		return int(loc.U8(0))
	case 2:
		return int(loc.U16(0))
	case 4:
		return int(loc.U32(0))
	}
	return nil
}

func help(topic string) {
	switch strings.ToLower(topic) {
	case "patchmap", "ift", "iftx":
		pterm.Info.Println("Patch map tables 'IFT ' and 'IFTX'")
		pterm.Println(`
	A patch map is a list of header fields:
	   0  format                 6  max entry index
	   1  reserved               7  max glyph map entry index
	 2-5  compatibility ID       8  glyph count
	                             9  offset of glyph map
	                            10  offset of feature map
	If the table has a feature map, '->' walks to it. The feature map
	behaves as a list of feature records.
	`)
	case "subset":
		pterm.Info.Println("Subset definition")
		pterm.Println(`
	text:abc          add code-points of "abc" to the subset definition
	features:liga,smcp  set the layout features of the subset definition
	select            select the next patches for the subset definition
	fetch             load data of the selected patches from the patch directory
	status            show the status of patches
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	info              show font type and patch map summary
	table:TAG         start navigating table TAG, e.g. table:IFTX
	list[:n]          show length of current list, or list item n
	->                walk a link, e.g. to the feature map
	help:subset       commands to select and fetch patches
	help:patchmap     layout of patch map tables
	quit              leave
	`)
	}
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}
