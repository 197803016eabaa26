package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tilefinder/tilefinder/internal/finder"
)

// Table column widths for list output
const (
	tableColTitle  = 32
	tableColCount  = 6
	tableColSource = 18
	tableColDist   = 8
)

type listOptions struct {
	Radius   int
	Filter   string
	Group    string
	Sort     string
	Page     int
	PageSize int
	JSON     bool
}

func handleList(worldPath string, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	var opts listOptions
	fs.IntVar(&opts.Radius, "radius", 0, "Scan radius in cells (8-128, default from config)")
	fs.IntVar(&opts.Radius, "r", 0, "Scan radius (short)")
	fs.StringVar(&opts.Filter, "filter", "", "Name filter, or @source")
	fs.StringVar(&opts.Filter, "f", "", "Name filter (short)")
	fs.StringVar(&opts.Group, "group", "", "Grouping: none, favorites, name, source (default: last used)")
	fs.StringVar(&opts.Sort, "sort", "", "Order: distance, name, source (default: last used)")
	fs.IntVar(&opts.Page, "page", 1, "Page to show")
	fs.IntVar(&opts.PageSize, "page-size", finder.DefaultPageSize, "Rows per page")
	fs.BoolVar(&opts.JSON, "json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Println("Usage: tilefinder list [options]")
		fmt.Println()
		fmt.Println("List tile entities around the viewer.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  tilefinder list --filter chest")
		fmt.Println("  tilefinder list --filter @ironchest --group name")
		fmt.Println("  tilefinder -w base.toml list -r 64 --sort name --page 2")
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	st, err := openState()
	if err != nil {
		fatalf("%v", err)
	}
	defer st.Close()

	if err := runList(os.Stdout, st, worldPath, opts); err != nil {
		fatalf("%v", err)
	}
}

// applyModes overrides the session's remembered modes with explicit flags.
func applyModes(s *finder.Session, group, sortBy string) error {
	if group != "" {
		g, err := finder.ParseGroupMode(group)
		if err != nil {
			return err
		}
		s.SetGroup(g)
	}
	if sortBy != "" {
		m, err := finder.ParseSortMode(sortBy)
		if err != nil {
			return err
		}
		s.SetSort(m)
	}
	return nil
}

func runList(w io.Writer, st *appState, worldPath string, opts listOptions) error {
	wld, err := st.openWorld(worldPath)
	if err != nil {
		return err
	}
	s := st.newSession(wld, opts.Radius, nil)
	if err := applyModes(s, opts.Group, opts.Sort); err != nil {
		return err
	}
	s.SetFilter(opts.Filter)
	res := s.Result()

	rows, pages := finder.Paginate(res.Rows, opts.Page-1, opts.PageSize)
	page := min(max(opts.Page, 1), pages)

	if opts.JSON {
		out := &CLIOutput{w: w, jsonMode: true}
		out.printJSON(map[string]any{
			"radius":  res.Query.Radius,
			"group":   res.Query.Group.String(),
			"sort":    res.Query.Sort.String(),
			"scanned": res.Scanned,
			"found":   res.Logical,
			"total":   len(res.Rows),
			"page":    page,
			"pages":   pages,
			"rows":    rows,
		})
		return nil
	}

	if !res.HasViewer {
		fmt.Fprintln(w, "No viewer in the world.")
		return nil
	}
	if len(res.Rows) == 0 {
		fmt.Fprintf(w, "Nothing found within %d cells.\n", res.Query.Radius)
		return nil
	}

	writeRows(w, rows)
	fmt.Fprintf(w, "\nPage %d/%d · %d rows · %d found · %d scanned · radius %d · group %s · sort %s\n",
		page, pages, len(res.Rows), res.Logical, res.Scanned,
		res.Query.Radius, res.Query.Group, res.Query.Sort)
	return nil
}

func writeRows(w io.Writer, rows []finder.Row) {
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		pad("NAME", tableColTitle), pad("COUNT", tableColCount),
		pad("SOURCE", tableColSource), pad("DIST", tableColDist), "POS")
	fmt.Fprintln(w, strings.Repeat("-", 2+tableColTitle+tableColCount+tableColSource+tableColDist+16))
	for _, r := range rows {
		star := " "
		if r.Favorite {
			star = starSymbol
		}
		count := ""
		if r.Entry.Count > 1 {
			count = fmt.Sprintf("x%d", r.Entry.Count)
		}
		fmt.Fprintf(w, "%s %s %s %s %s %s\n",
			star,
			pad(r.Title(), tableColTitle),
			pad(count, tableColCount),
			pad(r.SourceName, tableColSource),
			pad(fmt.Sprintf("%.1f", r.Entry.Distance()), tableColDist),
			r.Entry.Representative.Pos,
		)
	}
}

func handleTypes(worldPath string, args []string) {
	fs := flag.NewFlagSet("types", flag.ExitOnError)
	radius := fs.Int("radius", 0, "Scan radius in cells")
	filter := fs.String("filter", "", "Match namespace, type path or name; @text matches the namespace only")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Println("Usage: tilefinder types [options]")
		fmt.Println()
		fmt.Println("Count tile entities around the viewer by type, most common first.")
		fmt.Println()
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  tilefinder types --filter furnace")
		fmt.Println("  tilefinder types --filter @ironchest")
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	st, err := openState()
	if err != nil {
		fatalf("%v", err)
	}
	defer st.Close()

	if err := runTypes(os.Stdout, st, worldPath, *radius, *filter, *jsonOutput); err != nil {
		fatalf("%v", err)
	}
}

func runTypes(w io.Writer, st *appState, worldPath string, radius int, filter string, jsonOutput bool) error {
	wld, err := st.openWorld(worldPath)
	if err != nil {
		return err
	}
	if radius <= 0 {
		radius = st.cfg.ResolvedRadius()
	}
	p := finder.NewPipeline(wld, wld, finder.NewLabeler(wld, st.cfg.Sources), st.shared.Favorites, nil)
	counts := p.Overview(finder.ClampRadius(radius), filter)

	if jsonOutput {
		(&CLIOutput{w: w, jsonMode: true}).printJSON(counts)
		return nil
	}
	if len(counts) == 0 {
		fmt.Fprintln(w, "Nothing found.")
		return nil
	}
	fmt.Fprintf(w, "%s %s %s %s\n", pad("NAME", tableColTitle), pad("TYPE", 32), pad("COUNT", tableColCount), "NEAREST")
	for _, c := range counts {
		fmt.Fprintf(w, "%s %s %s %s (%.1f)\n",
			pad(c.Name, tableColTitle), pad(string(c.Type), 32),
			pad(fmt.Sprint(c.Count), tableColCount),
			c.Nearest.Pos, c.Nearest.Distance)
	}
	return nil
}

func handleSelect(worldPath string, args []string) {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	radius := fs.Int("radius", 0, "Scan radius in cells")
	filter := fs.String("filter", "", "Name filter, or @source")
	group := fs.String("group", "", "Grouping mode")
	sortBy := fs.String("sort", "", "Sort order")
	index := fs.Int("index", 1, "Row to select, 1 based")
	member := fs.Int("member", 0, "Member of a grouped row, 1 based (0: the nearest)")
	doCopy := fs.Bool("copy", false, "Copy the teleport command to the clipboard")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Println("Usage: tilefinder select [options]")
		fmt.Println()
		fmt.Println("Pick a row the way enter does in the finder and print where it is.")
		fmt.Println()
		fs.PrintDefaults()
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	st, err := openState()
	if err != nil {
		fatalf("%v", err)
	}
	defer st.Close()

	wld, err := st.openWorld(worldPath)
	if err != nil {
		fatalf("%v", err)
	}
	var nav finder.Navigator
	cn := &clipboardNavigator{allowOSC52: true}
	if *doCopy {
		nav = cn
	}
	s := st.newSession(wld, *radius, nav)
	if err := applyModes(s, *group, *sortBy); err != nil {
		fatalf("%v", err)
	}
	s.SetFilter(*filter)
	s.SubmitFilter()

	var t finder.Target
	if *member > 0 {
		t, err = s.SelectMember(*index-1, *member-1)
	} else {
		t, err = s.SelectEntry(*index - 1)
	}
	if err != nil {
		fatalf("%v", err)
	}

	out := NewCLIOutput(*jsonOutput)
	msg := t.String() + "\n  " + teleportCommand(t)
	if cn.last != nil {
		msg += fmt.Sprintf("\n  copied via %s", cn.last.Method)
	}
	out.Success(msg, t)
}

func handleComplete(worldPath string, args []string) {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	limit := fs.Int("limit", 0, "List up to N ranked suggestions instead of completing")
	fs.Usage = func() {
		fmt.Println("Usage: tilefinder complete [--limit N] TEXT")
		fmt.Println()
		fmt.Println("Complete a filter the way tab does in the finder.")
		fmt.Println()
		fs.PrintDefaults()
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	st, err := openState()
	if err != nil {
		fatalf("%v", err)
	}
	defer st.Close()

	if err := runComplete(os.Stdout, st, worldPath, strings.Join(fs.Args(), " "), *limit); err != nil {
		fatalf("%v", err)
	}
}

func runComplete(w io.Writer, st *appState, worldPath, text string, limit int) error {
	wld, err := st.openWorld(worldPath)
	if err != nil {
		return err
	}
	s := st.newSession(wld, 0, nil)
	s.SetFilter(text)

	if limit > 0 {
		for _, v := range s.Suggest(limit) {
			fmt.Fprintln(w, v)
		}
		return nil
	}
	if !s.Complete() {
		return fmt.Errorf("no completion for %q", text)
	}
	fmt.Fprintln(w, s.Query().Filter)
	return nil
}
