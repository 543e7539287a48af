package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/imgkit"
	"github.com/esimov/imgkit/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const HelpBanner = `
┬┌┬┐┌─┐┬┌─┬┌┬┐
││││││ ┬├┴┐│ │
┴┴ ┴└─┘┴ ┴┴ ┴

Image manipulation toolkit.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions holds the file extensions processed when the source is a directory.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// result holds the outcome of processing a single image.
type result struct {
	path string
	err  error
}

// job describes how every source image is processed.
type job struct {
	proc    *imgkit.Processor
	quality int
	logger  *zerolog.Logger
	spinner *utils.Spinner
}

// Version indicates the current build version.
var Version string

func main() {
	fs := newFlagSet()
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		fs.PrintDefaults()
	}

	v, err := loadConfig(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		os.Exit(2)
	}

	logger := newLogger(os.Stderr, v.GetString("log-level"))

	proc, err := newProcessor(v, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ IMGKIT", utils.StatusMessage),
		utils.DecorateText("is processing the image...", utils.DefaultMessage))

	j := &job{
		proc:    proc,
		quality: v.GetInt("quality"),
		logger:  &logger,
		spinner: utils.NewSpinner(os.Stderr, spinnerText, time.Millisecond*200, true),
	}
	j.spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ IMGKIT", utils.StatusMessage),
		utils.DecorateText("is processing the image... ✔", utils.DefaultMessage))

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		j.spinner.RestoreCursor()
		os.Exit(1)
	}()

	source, destination := v.GetString("in"), v.GetString("out")
	var tmpFile string

	// Check if the source path is a local image or URL.
	if utils.IsValidUrl(source) {
		src, err := utils.DownloadImage(context.Background(), source)
		if err != nil {
			logger.Fatal().Err(err).Str("url", source).Msg("failed to download the source image")
		}
		src.Close()

		tmpFile = src.Name()
		source = tmpFile
	}

	var fi os.FileInfo
	if source == pipeName {
		fi, err = os.Stdin.Stat()
	} else {
		fi, err = os.Stat(source)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load the source image")
	}

	now := time.Now()
	failed := 0

	switch mode := fi.Mode(); {
	case mode.IsDir():
		if _, err := os.Stat(destination); err != nil {
			if err := os.MkdirAll(destination, 0755); err != nil {
				logger.Fatal().Err(err).Msg("unable to create the destination directory")
			}
		}

		workers := v.GetInt("conc")
		// Limit the concurrently running workers to maxWorkers.
		if workers <= 0 || workers > maxWorkers {
			workers = runtime.NumCPU()
		}

		// Process recursively the image files from the specified directory concurrently.
		// The statuses are printed once the whole batch is done.
		var results []result
		done := make(chan struct{})
		defer close(done)

		paths, errc := walkDir(done, source, validExtensions)

		j.batch(func() {
			var wg sync.WaitGroup
			ch := make(chan result)

			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					consumer(done, paths, destination, j, ch)
				}()
			}

			// Close the channel after the values are consumed.
			go func() {
				defer close(ch)
				wg.Wait()
			}()

			for res := range ch {
				results = append(results, res)
			}
		})

		for _, res := range results {
			if !printStatus(res.path, res.err) {
				failed++
			}
		}

		if err := <-errc; err != nil {
			logger.Error().Err(err).Msg("directory walk failed")
			failed++
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeCharDevice != 0:
		if destination != pipeName && !isValidExtension(filepath.Ext(destination), validExtensions) {
			logger.Fatal().Str("out", destination).Msg("file type not supported")
		}
		var procErr error
		j.batch(func() {
			procErr = j.process(source, destination)
		})
		if !printStatus(destination, procErr) {
			failed++
		}
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))

	if tmpFile != "" {
		os.Remove(tmpFile)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// walkDir starts a goroutine to walk the specified directory tree in recursive manner
// and send the path of each supported image file on the string channel.
// It sends the result of the walk on the error channel.
// It terminates in case done channel is closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() || !isValidExtension(filepath.Ext(info.Name()), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// consumer reads the path names from the paths channel, processes
// the source images and sends the results on the res channel.
func consumer(
	done <-chan struct{},
	paths <-chan string,
	dest string,
	j *job,
	res chan<- result,
) {
	for src := range paths {
		err := j.process(src, filepath.Join(dest, filepath.Base(src)))

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// batch runs fn with the progress indicator spinning.
func (j *job) batch(fn func()) {
	j.spinner.Start()
	defer j.spinner.Stop()

	fn()
}

// process runs the processor over the in image and writes the result into out.
// It is safe to call from concurrent workers.
func (j *job) process(in, out string) error {
	// Each call works on its own copy, the write strategy depends on the output.
	proc := *j.proc

	format := proc.Format
	if out != pipeName {
		var err error
		if format, err = imgkit.FormatFromFilename(out); err != nil {
			return err
		}
	}
	strategy, err := strategyFor(format, j.quality)
	if err != nil {
		return err
	}
	proc.Strategy = strategy

	j.logger.Debug().Str("in", in).Str("out", out).Stringer("format", format).Msg("processing image")

	if in != pipeName && out != pipeName {
		return proc.ProcessFile(in, out)
	}

	src, dst, closeFn, err := pathToFile(in, out)
	if err != nil {
		return err
	}
	defer closeFn()

	return proc.Process(src, dst)
}

// pathToFile converts the source and destination paths to readable and writable streams.
// The returned function closes the opened files.
func pathToFile(in, out string) (io.Reader, io.Writer, func(), error) {
	var (
		src   io.Reader
		dst   io.Writer
		files []*os.File
	)
	closeFn := func() {
		for _, f := range files {
			f.Close()
		}
	}

	// Check if the source is a pipe name or a regular file.
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		f, err := os.Open(in)
		if err != nil {
			return nil, nil, nil, errors.Wrap(imgkit.ErrFileNotFound, err.Error())
		}
		files = append(files, f)
		src = f
	}

	// Check if the destination is a pipe name or a regular file.
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeFn()
			return nil, nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		f, err := os.Create(out)
		if err != nil {
			closeFn()
			return nil, nil, nil, errors.Wrap(imgkit.ErrWrite, err.Error())
		}
		files = append(files, f)
		dst = f
	}
	return src, dst, closeFn, nil
}

// printStatus displays the outcome of processing an image and reports whether it succeeded.
func printStatus(fname string, err error) bool {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s",
			utils.DecorateText("\nError processing the image: "+fname, utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return false
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
	return true
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if strings.EqualFold(ex, ext) {
			return true
		}
	}
	return false
}
