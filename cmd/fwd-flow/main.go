// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fwd-flow runs the forward flow analysis over LCIO files.
//
// Each input file is analysed by its own worker. The cumulant tables of all
// the workers are merged and stored, along with the per-file QA histograms,
// in a ROOT file. The flow coefficients v_n{2} and v_n{4} are extracted from
// the merged tables and stored as scatters in the ROOT file, in an optional
// YODA file and in optional plots.
//
// Usage: fwd-flow [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> fwd-flow -cfg flow.yaml -o out.root -yoda out.yoda -j 4 ./data/*.slcio
//	$> fwd-flow -merge -o all.root ./out-1.root ./out-2.root
package main // import "github.com/go-lpc/pwg/cmd/fwd-flow"

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-lpc/pwg/conddb"
	"github.com/go-lpc/pwg/flow"
	"github.com/go-lpc/pwg/internal/xcnv"
	"github.com/go-lpc/pwg/internal/xroot"
	"github.com/sbinet/pmon"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"go-hep.org/x/hep/lcio"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"
	mail "gopkg.in/gomail.v2"
)

const usage = `fwd-flow runs the forward flow analysis over LCIO files.

Usage: fwd-flow [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> fwd-flow -cfg flow.yaml -o out.root -yoda out.yoda -j 4 ./data/*.slcio
 $> fwd-flow -merge -o all.root ./out-1.root ./out-2.root

Options:
`

type config struct {
	settings flow.Settings
	oname    string // output ROOT file
	yoda     string // output YODA file
	plot     string // prefix of output plots
	njobs    int
	freq     int
	merge    bool // inputs are ROOT files from previous fwd-flow runs

	dbname string
	period string

	pmon bool
	mail bool
}

func main() {
	xmain(os.Args[1:])
}

func xmain(args []string) {
	log.SetPrefix("fwd-flow: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("fwd-flow", flag.ExitOnError)

		cfgName = fset.String("cfg", "", "path to YAML analysis settings (default: built-in settings)")
		oname   = fset.String("o", "out.root", "path to output ROOT file")
		yoda    = fset.String("yoda", "", "path to output YODA file")
		plot    = fset.String("plot", "", "prefix of output plots")
		njobs   = fset.Int("j", runtime.NumCPU(), "number of concurrent workers")
		freq    = fset.Int("freq", 1000, "frequency of progress messages")
		merge   = fset.Bool("merge", false, "merge the outputs of previous fwd-flow runs")
		dbname  = fset.String("db", "", "name of the condition DB holding correction tables")
		period  = fset.String("period", "", "data-taking period of the correction tables (default: last period)")
		doMon   = fset.Bool("pmon", false, "enable pmon monitoring")
		doMail  = fset.Bool("mail", false, "send an end-of-job summary by mail")
	)

	fset.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input file")
	}

	settings := flow.DefaultSettings()
	if *cfgName != "" {
		settings, err = flow.ReadSettings(*cfgName)
		if err != nil {
			log.Fatalf("could not read analysis settings: %+v", err)
		}
	}

	cfg := config{
		settings: settings,
		oname:    *oname,
		yoda:     *yoda,
		plot:     *plot,
		njobs:    *njobs,
		freq:     *freq,
		merge:    *merge,
		dbname:   *dbname,
		period:   *period,
		pmon:     *doMon,
		mail:     *doMail,
	}

	if cfg.pmon {
		stop, err := monitor(cfg.oname)
		if err != nil {
			log.Fatalf("could not start monitoring: %+v", err)
		}
		defer stop()
	}

	start := time.Now()
	sum, err := process(cfg, fset.Args())
	if cfg.mail {
		sendSummary(sum, time.Since(start), err)
	}
	if err != nil {
		log.Fatalf("could not run flow analysis: %+v", err)
	}
}

// summary describes the outcome of a job.
type summary struct {
	files     []string
	processed int64
	accepted  int64
	oname     string
}

func (sum summary) String() string {
	o := new(strings.Builder)
	fmt.Fprintf(o, "files:     %d\n", len(sum.files))
	for _, fname := range sum.files {
		fmt.Fprintf(o, "  - %s\n", fname)
	}
	fmt.Fprintf(o, "processed: %d\n", sum.processed)
	fmt.Fprintf(o, "accepted:  %d\n", sum.accepted)
	fmt.Fprintf(o, "output:    %s\n", sum.oname)
	return o.String()
}

func process(cfg config, fnames []string) (summary, error) {
	sum := summary{files: fnames, oname: cfg.oname}

	var (
		out   *flow.Output
		hists [][]*hbook.H1D
		h2ds  []*hbook.H2D
		err   error
	)
	switch {
	case cfg.merge:
		out, err = mergeFiles(cfg.settings, fnames)
		if err != nil {
			return sum, fmt.Errorf("could not merge outputs: %w", err)
		}
	default:
		corr, err := corrections(cfg)
		if err != nil {
			return sum, fmt.Errorf("could not retrieve correction tables: %w", err)
		}

		tasks, err := analyse(cfg, corr, fnames)
		if err != nil {
			return sum, err
		}

		out = flow.NewOutput(cfg.settings)
		for i, task := range tasks {
			err = out.Merge(task.Output())
			if err != nil {
				return sum, fmt.Errorf("could not merge output of %q: %w", fnames[i], err)
			}
			var (
				stats = task.Stats()
				hs    = task.Histograms()
				sfx   = fmt.Sprintf("_f%03d", i)
			)
			sum.processed += stats.Processed
			sum.accepted += stats.Accepted

			hists = append(hists, []*hbook.H1D{rename(hs.ZVtx, sfx), rename(hs.Cent, sfx)})
			h2ds = append(h2ds, rename(hs.EtaPhi, sfx))
		}
		log.Printf("processed %d events (accepted: %d)", sum.processed, sum.accepted)
	}

	res := make([]flow.Results, len(out.Harmonics))
	for i, n := range out.Harmonics {
		res[i] = flow.Reduce(n, out.Ref[i], out.Diff[i])
	}
	scatters := scattersFrom(res, out)

	err = save(cfg.oname, out, hists, h2ds, scatters)
	if err != nil {
		return sum, fmt.Errorf("could not save output: %w", err)
	}

	if cfg.yoda != "" {
		err = saveYODA(cfg.yoda, scatters)
		if err != nil {
			return sum, fmt.Errorf("could not save YODA output: %w", err)
		}
	}

	if cfg.plot != "" {
		err = plotResults(cfg.plot, res, out)
		if err != nil {
			return sum, fmt.Errorf("could not plot results: %w", err)
		}
	}

	return sum, nil
}

type annotated interface {
	Annotation() hbook.Annotation
}

func rename[T annotated](h T, sfx string) T {
	ann := h.Annotation()
	ann["name"] = fmt.Sprintf("%v%s", ann["name"], sfx)
	return h
}

func corrections(cfg config) (flow.Corrections, error) {
	var corr flow.Corrections
	if cfg.dbname == "" {
		return corr, nil
	}

	db, err := conddb.Open(cfg.dbname)
	if err != nil {
		return corr, fmt.Errorf("could not open condition DB: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	period := cfg.period
	if period == "" {
		period, err = db.LastPeriod(ctx)
		if err != nil {
			return corr, fmt.Errorf("could not find last period: %w", err)
		}
	}
	log.Printf("period: %q", period)

	return db.Corrections(ctx, period)
}

// analyse runs one flow task per input file.
func analyse(cfg config, corr flow.Corrections, fnames []string) ([]*flow.Task, error) {
	var (
		grp   errgroup.Group
		tasks = make([]*flow.Task, len(fnames))
	)
	if cfg.njobs > 0 {
		grp.SetLimit(cfg.njobs)
	}

	for i := range fnames {
		i := i
		grp.Go(func() error {
			task, err := analyseFile(cfg, corr, fnames[i])
			if err != nil {
				return fmt.Errorf("could not analyse %q: %w", fnames[i], err)
			}
			tasks[i] = task
			return nil
		})
	}

	err := grp.Wait()
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func analyseFile(cfg config, corr flow.Corrections, fname string) (*flow.Task, error) {
	r, err := lcio.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open LCIO file: %w", err)
	}
	defer r.Close()

	task, err := flow.NewTask(
		cfg.settings,
		flow.WithCorrections(corr),
		flow.WithFreq(cfg.freq),
		flow.WithLogger(log.New(os.Stdout, "fwd-flow["+filepath.Base(fname)+"]: ", 0)),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create flow task: %w", err)
	}

	var evt flow.Event
	err = xcnv.Loop(r, func(raw *lcio.Event) error {
		err := xcnv.FlowEvent(&evt, raw)
		if err != nil {
			return fmt.Errorf("could not convert event %d: %w", raw.EventNumber, err)
		}
		task.Exec(&evt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

func mergeFiles(settings flow.Settings, fnames []string) (*flow.Output, error) {
	out := flow.NewOutput(settings)
	for _, fname := range fnames {
		err := func() error {
			f, err := groot.Open(fname)
			if err != nil {
				return fmt.Errorf("could not open ROOT file: %w", err)
			}
			defer f.Close()

			o, err := xroot.ReadOutput(f, settings.Harmonics)
			if err != nil {
				return err
			}
			return out.Merge(o)
		}()
		if err != nil {
			return nil, fmt.Errorf("could not merge %q: %w", fname, err)
		}
	}
	return out, nil
}

func scatterName(n int, kind string, cent int) string {
	return fmt.Sprintf("v%d_%s_cent%02d", n, kind, cent)
}

func scattersFrom(res []flow.Results, out *flow.Output) []*hbook.S2D {
	var ss []*hbook.S2D
	for i, r := range res {
		for _, c := range r.Centralities() {
			for _, v := range []struct {
				kind string
				pts  []flow.Point
				eta  flow.Axis
			}{
				{"ref2", r.Ref2, out.Ref[i].Eta},
				{"ref4", r.Ref4, out.Ref[i].Eta},
				{"diff2", r.Diff2, out.Diff[i].Eta},
				{"diff4", r.Diff4, out.Diff[i].Eta},
			} {
				s := flow.S2D(v.pts, c, v.eta)
				if s.Len() == 0 {
					continue
				}
				s.Annotation()["name"] = scatterName(r.N, v.kind, c)
				ss = append(ss, s)
			}
		}
	}
	return ss
}

func save(oname string, out *flow.Output, hists [][]*hbook.H1D, h2ds []*hbook.H2D, scatters []*hbook.S2D) error {
	f, err := groot.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output ROOT file: %w", err)
	}
	defer f.Close()

	err = xroot.WriteOutput(f, out)
	if err != nil {
		return err
	}

	for _, hs := range hists {
		err = xroot.WriteH1Ds(f, hs...)
		if err != nil {
			return err
		}
	}

	err = xroot.WriteH2Ds(f, h2ds...)
	if err != nil {
		return err
	}

	err = xroot.WriteS2Ds(f, scatters...)
	if err != nil {
		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close output ROOT file: %w", err)
	}
	return nil
}

func saveYODA(oname string, scatters []*hbook.S2D) error {
	f, err := os.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create YODA file: %w", err)
	}
	defer f.Close()

	vs := make([]xroot.YODAMarshaler, len(scatters))
	for i, s := range scatters {
		vs[i] = s
	}

	err = xroot.WriteYODA(f, vs...)
	if err != nil {
		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close YODA file: %w", err)
	}
	return nil
}

// plotResults draws v_n{2} and v_n{4} as a function of eta,
// one plot per harmonic and centrality bin.
func plotResults(prefix string, res []flow.Results, out *flow.Output) error {
	for i, r := range res {
		for _, c := range r.Centralities() {
			var (
				p  = hplot.New()
				lo = r.Cent.Min + float64(c)*r.Cent.Width()
				hi = lo + r.Cent.Width()
			)
			p.Title.Text = fmt.Sprintf("v%d, centrality %v-%v%%", r.N, lo, hi)
			p.X.Label.Text = "η"
			p.Y.Label.Text = fmt.Sprintf("v%d", r.N)
			p.Add(hplot.NewGrid())

			for _, v := range []struct {
				name string
				pts  []flow.Point
			}{
				{fmt.Sprintf("v%d{2}", r.N), r.Diff2},
				{fmt.Sprintf("v%d{4}", r.N), r.Diff4},
			} {
				data := flow.S2D(v.pts, c, out.Diff[i].Eta)
				if data.Len() == 0 {
					continue
				}
				s := hplot.NewS2D(data, hplot.WithYErrBars(true))
				p.Add(s)
				p.Legend.Add(v.name, s)
			}

			fname := fmt.Sprintf("%s_v%d_cent%02d.png", prefix, r.N, c)
			err := p.Save(6*vg.Inch, 4*vg.Inch, fname)
			if err != nil {
				return fmt.Errorf("could not save plot %q: %w", fname, err)
			}
		}
	}
	return nil
}

// monitor starts monitoring the resources used by the current process.
func monitor(oname string) (func(), error) {
	pid := os.Getpid()
	p, err := pmon.Monitor(pid)
	if err != nil {
		return nil, fmt.Errorf("could not start monitoring (pid=%d): %w", pid, err)
	}

	f, err := os.Create(strings.TrimSuffix(oname, filepath.Ext(oname)) + "-pmon.log")
	if err != nil {
		return nil, fmt.Errorf("could not create pmon log file: %w", err)
	}
	p.W = f
	p.Freq = 1 * time.Second

	go func() {
		err := p.Run()
		if err != nil {
			log.Printf("could not run pmon: %+v", err)
		}
	}()

	return func() {
		err := p.Kill()
		if err != nil {
			log.Printf("could not stop monitoring: %+v", err)
		}
		_ = f.Close()
	}, nil
}

var (
	mailUsr  = os.Getenv("MAIL_USERNAME")
	mailPwd  = os.Getenv("MAIL_PASSWORD")
	mailSrv  = os.Getenv("MAIL_SERVER")
	mailPort = atoi(os.Getenv("MAIL_PORT"))
	mailTgts = strings.Split(os.Getenv("MAIL_TGTS"), ",")
)

func sendSummary(sum summary, dt time.Duration, jobErr error) {
	if mailUsr == "" || mailPwd == "" ||
		mailSrv == "" || mailPort == 0 ||
		len(mailTgts) == 0 || mailTgts[0] == "" {
		log.Printf("could not send mail summary: missing credentials")
		return
	}

	status := "ok"
	if jobErr != nil {
		status = "FAILED"
	}

	body := sum.String() + fmt.Sprintf("time:      %v\n", dt)
	if jobErr != nil {
		body += fmt.Sprintf("error:     %+v\n", jobErr)
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", mailUsr)
	msg.SetHeader("Bcc", mailTgts...)
	msg.SetHeader("Subject", fmt.Sprintf("[fwd-flow] job %s: %q", status, sum.oname))
	msg.SetBody("text/plain", body)

	dial := mail.NewDialer(mailSrv, mailPort, mailUsr, mailPwd)
	dial.TLSConfig = &tls.Config{
		InsecureSkipVerify: true,
	}
	err := dial.DialAndSend(msg)
	if err != nil {
		log.Printf("could not send mail summary: %+v", err)
	}
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
