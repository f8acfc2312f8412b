package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/events/nats"
	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/app"
	"github.com/Felo0o0/PrimeSecure/app/api"
	"github.com/Felo0o0/PrimeSecure/archive"
	"github.com/Felo0o0/PrimeSecure/batch"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/message"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/codec"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"go.uber.org/multierr"
)

func runScan(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "scan", "-start n -end n [-workers n] [-seed] [-list] [-json]")
	start := fs.Int("start", 0, "first value of the range")
	end := fs.Int("end", 1000, "last value of the range, inclusive")
	workers := fs.Int("workers", 0, "worker count, 0 for the configured default")
	seed := fs.Bool("seed", false, "add the primes inside the keyring bounds to the keyring")
	list := fs.Bool("list", false, "print every prime found")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, closeApp, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	res, err := a.ScanPrimes(ctx, prime.Range{Start: *start, End: *end}, *workers)
	if err != nil {
		return err
	}

	if *asJSON {
		if err := codec.EncodeTo(env.stdout, res, codec.JSON); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(env.stdout, "found %d primes in [%d, %d] with %d workers in %s (%s)\n",
			len(res.Primes), res.Range.Start, res.Range.End, res.WorkerCount(), res.Elapsed, res.Status)
		for _, w := range res.Workers {
			fmt.Fprintf(env.stdout, "  worker %d: [%d, %d] found %d\n", w.Worker, w.Start, w.End, w.Found)
		}
		if *list {
			fmt.Fprintln(env.stdout, joinInts(res.Primes, " "))
		}
	}

	if !*seed {
		return nil
	}
	lo, hi := a.Keyring().Bounds()
	added := 0
	for _, p := range res.Primes {
		if p < lo || p > hi {
			continue
		}
		isNew, err := a.Keyring().Add(ctx, p)
		if err != nil {
			return err
		}
		if isNew {
			added++
		}
	}
	fmt.Fprintf(env.stdout, "added %d keys to the keyring\n", added)
	return nil
}

func runKeys(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "keys", "[-seed n] [-scan] [-add key] [-remove key] [-random]")
	seed := fs.Int("seed", 0, "add n random primes from the keyring bounds")
	scan := fs.Bool("scan", false, "add every prime inside the keyring bounds")
	add := fs.Int("add", 0, "add one prime key")
	remove := fs.Int("remove", 0, "remove one key")
	random := fs.Bool("random", false, "print a random key, generating one when the keyring is empty")
	workers := fs.Int("workers", 0, "worker count for -scan")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, closeApp, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer closeApp()
	ring := a.Keyring()

	if *seed > 0 {
		added, err := a.SeedKeys(ctx, *seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "seeded %d keys: %s\n", len(added), joinInts(added, ", "))
	}
	if *scan {
		lo, hi := ring.Bounds()
		r := prime.Range{Start: lo, End: hi}
		added, err := ring.SeedFromScan(ctx, r, a.Workers(*workers, r.Size()))
		if err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "seeded %d keys from [%d, %d]\n", added, lo, hi)
	}
	if *add != 0 {
		if !prime.IsPrime(*add) {
			return blame.KeyNotPrimeError(*add)
		}
		isNew, err := ring.Add(ctx, *add)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "key %d added: %t\n", *add, isNew)
	}
	if *remove != 0 {
		removed, err := ring.Remove(ctx, *remove)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "key %d removed: %t\n", *remove, removed)
	}
	if *random {
		key, err := ring.RandomOrGenerate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.stdout, key)
		return nil
	}

	keys, err := ring.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "%d keys: %s\n", len(keys), joinInts(keys, ", "))
	return nil
}

func runFile(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "file", "-in path -out path [-op encrypt|decrypt] [-key n] [-workers n]")
	in := fs.String("in", "", "input text file")
	out := fs.String("out", "", "output file")
	opName := fs.String("op", cipher.Encrypt.String(), "encrypt or decrypt")
	key := fs.Int("key", 0, "prime key, 0 to take one from the keyring")
	workers := fs.Int("workers", 0, "worker count, 0 for the configured default")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		fs.Usage()
		return blame.RequestBodyInvalidError(fmt.Errorf("-in and -out are required"))
	}
	op, err := cipher.ParseOperation(*opName)
	if err != nil {
		return err
	}

	a, closeApp, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	k := *key
	if k == 0 {
		if op == cipher.Decrypt {
			return blame.KeyNotPrimeError(k)
		}
		if k, err = a.Keyring().RandomOrGenerate(ctx); err != nil {
			return err
		}
	}

	report, err := a.ProcessFile(ctx, *in, *out, k, op, *workers)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "%s %s -> %s with key %d: %d bytes, %d runes, %d workers in %s\n",
		report.Operation, report.Input, report.Output, k,
		report.Bytes, report.Runes, report.Workers, report.Elapsed)
	return nil
}

func runBatch(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "batch", "(-csv path | -generate n) [-op encrypt|decrypt] [-out path] [-format name] [-text]")
	csvPath := fs.String("csv", "", "CSV batch with content,sender,recipient,prime_code columns")
	generate := fs.Int("generate", 0, "build n sample messages instead of reading a CSV")
	opName := fs.String("op", cipher.Encrypt.String(), "encrypt or decrypt")
	workers := fs.Int("workers", 0, "worker count, 0 for the configured default")
	out := fs.String("out", "", "archive to write the transformed messages to")
	formatName := fs.String("format", "", "archive format, inferred from -out when empty")
	text := fs.Bool("text", false, "print a text report of the messages")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*csvPath == "") == (*generate <= 0) {
		fs.Usage()
		return blame.RequestBodyInvalidError(fmt.Errorf("exactly one of -csv or -generate is required"))
	}
	op, err := cipher.ParseOperation(*opName)
	if err != nil {
		return err
	}

	a, closeApp, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	var format types.CodecType
	if *out != "" {
		if format, err = archiveFormat(*formatName, *out, a.Config().Archive.Format); err != nil {
			return err
		}
	}

	var msgs []*message.Message
	if *csvPath != "" {
		var rowErrs []error
		err = archive.LoadFile(*csvPath, func(r io.Reader) error {
			var importErr error
			msgs, rowErrs, importErr = a.ImportCSV(ctx, r)
			return importErr
		})
		for _, rowErr := range rowErrs {
			reportError(env.stderr, rowErr)
		}
	} else {
		msgs, err = a.GenerateSamples(ctx, *generate)
	}
	if err != nil {
		return err
	}

	report, runErr := a.TransformMessages(ctx, msgs, op, *workers)
	if report == nil || blame.HasCode(runErr, blame.ErrorBatchCancelled) {
		return runErr
	}
	printReport(env.stdout, report)

	if *text {
		if err := archive.ExportText(env.stdout, msgs, true); err != nil {
			return err
		}
	} else {
		for _, m := range msgs {
			fmt.Fprintf(env.stdout, "  %s\n", m)
		}
	}

	if *out != "" {
		if err := archive.SaveFile(*out, func(w io.Writer) error {
			return archive.Export(w, msgs, format)
		}); err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "exported %d messages to %s (%s)\n", len(msgs), *out, format)
	}
	return runErr
}

func runTemplate(_ context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "template", "[-out path] [-examples n]")
	out := fs.String("out", "", "file to write, stdout when empty")
	examples := fs.Int("examples", 3, "number of example rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return archive.WriteCSVTemplate(env.stdout, *examples)
	}
	if err := archive.SaveFile(*out, func(w io.Writer) error {
		return archive.WriteCSVTemplate(w, *examples)
	}); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "template written to %s\n", *out)
	return nil
}

func runShow(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "show", "-in path [-format name] [-content=false]")
	in := fs.String("in", "", "archive written by batch -out")
	formatName := fs.String("format", "", "archive format, inferred from -in when empty")
	content := fs.Bool("content", true, "include the message content")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return blame.RequestBodyInvalidError(fmt.Errorf("-in is required"))
	}

	fallback := archive.DefaultFormat
	if *formatName == "" && inferFormat(*in) == "" {
		a, closeApp, err := env.open(ctx)
		if err != nil {
			return err
		}
		fallback = a.Config().Archive.Format
		closeApp()
	}
	format, err := archiveFormat(*formatName, *in, fallback)
	if err != nil {
		return err
	}

	var msgs []*message.Message
	if err := archive.LoadFile(*in, func(r io.Reader) error {
		var importErr error
		msgs, importErr = archive.Import(r, format)
		return importErr
	}); err != nil {
		return err
	}
	return archive.ExportText(env.stdout, msgs, *content)
}

func runServe(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "serve", "")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, closeApp, err := env.open(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	maintenance := make(chan error, 1)
	go func() { maintenance <- a.RunMaintenance(ctx) }()

	err = api.NewServer(a).Run(ctx)
	cancel()
	return multierr.Append(err, <-maintenance)
}

func runWatch(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "watch", "[-subject pattern]")
	subject := fs.String("subject", ">", "subject pattern under the configured prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := app.LoadConfig(env.configDir, env.environment)
	if err != nil {
		return err
	}
	logger := log.NewBasicLogger(cfg.IsProduction())
	defer func() { _ = logger.Sync() }()

	manager, err := nats.NewNATSManager(cfg.Events.URL,
		nats.WithLogger(logger),
		nats.WithServiceName(cfg.Service),
		nats.WithSubjectPrefix(cfg.Events.SubjectPrefix),
		nats.WithTimeout(cfg.Events.Timeout),
		nats.WithIdempotencyWindow(cfg.Events.IdempotencyWindow))
	if err != nil {
		return err
	}
	defer func() { _ = manager.Close() }()

	var mu sync.Mutex
	if _, err := manager.Subscribe(*subject, func(e nats.Event[json.RawMessage]) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintf(env.stdout, "%s %s %s\n", e.OccurredAt.Format(time.RFC3339), e.Subject, e.Data)
		return err
	}); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

// archiveFormat resolves an explicit format name, then the file extension,
// then fallback.
func archiveFormat(name, path string, fallback types.CodecType) (types.CodecType, error) {
	if name != "" {
		return codec.Parse(name)
	}
	if ct := inferFormat(path); ct != "" {
		return ct, nil
	}
	return fallback, nil
}

// inferFormat maps a file extension to a codec, empty when unknown.
func inferFormat(path string) types.CodecType {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "mp" || ext == "msgpack" {
		return codec.MessagePack
	}
	ct, err := codec.Parse(ext)
	if err != nil {
		return ""
	}
	return ct
}

func printReport(w io.Writer, report *batch.Report) {
	fmt.Fprintf(w, "%s: %d/%d succeeded, %d failed, %d skipped with %d workers in %s (%s)\n",
		report.Operation, report.Succeeded, report.Total, report.Failed(), report.Skipped,
		report.Workers, report.Elapsed, report.Status)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  item %d: %v\n", f.Index, f.Output.Error())
	}
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, sep)
}
