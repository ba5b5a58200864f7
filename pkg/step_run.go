package provis

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/juju/errors"
	shellwords "github.com/mattn/go-shellwords"
	perrors "github.com/pkg/errors"

	"github.com/provis-run/provis/pkg/util/envutil"
)

type RunStepLoader struct{}

func (l RunStepLoader) LoadStep(def StepDef, context LoadingContext) (Step, error) {
	command, isStr := def.GetString("run")

	if !isStr || command == "" {
		return nil, fmt.Errorf("no run step found. run=%v, config=%v", def.Get("run"), def)
	}

	step := RunStep{
		Name:            def.GetName(),
		Command:         command,
		shell:           true,
		silent:          def.Silent(),
		continueOnError: def.ContinueOnError(),
	}

	if shell, ok := def.Get("shell").(bool); ok {
		step.shell = shell
	}

	if image, ok := def.Get("image").(string); ok {
		step.image = image
	}

	return step, nil
}

func NewRunStepLoader() RunStepLoader {
	return RunStepLoader{}
}

// RunStep executes one external command under the active execution
// context. The command goes through `sh -c` unless shell is disabled, in
// which case it is split into an argv and exec'd directly. An optional
// image runs the command inside a container instead of on the host.
type RunStep struct {
	Name            string
	Command         string
	shell           bool
	image           string
	silent          bool
	continueOnError bool
}

func (s RunStep) GetName() string {
	return s.Name
}

func (s RunStep) Silenced() bool {
	return s.silent
}

func (s RunStep) ContinuesOnError() bool {
	return s.continueOnError
}

func (s RunStep) Run(context ExecutionContext) (StepResult, error) {
	command, err := context.Render(s.Command, s.GetName())
	if err != nil {
		log.WithFields(log.Fields{"source": s.Command}).Errorf("run step failed templating")
		return StepResult{Context: context}, errors.Annotatef(err, "run step failed templating")
	}

	name, args, err := s.commandNameAndArgs(command, context)
	if err != nil {
		return StepResult{Context: context}, err
	}

	output, err := s.runCommand(name, args, context)

	return StepResult{Output: output, Context: context}, err
}

func (s RunStep) commandNameAndArgs(command string, context ExecutionContext) (string, []string, error) {
	if s.image != "" {
		dockerArgs := []string{"run", "--rm", "-i"}
		if context.Dir != "" {
			dockerArgs = append(dockerArgs, "-v", fmt.Sprintf("%s:%s", context.Dir, context.Dir), "-w", context.Dir)
		}
		if context.User != "" {
			dockerArgs = append(dockerArgs, "--user", context.User)
		}
		for name, value := range context.Env {
			dockerArgs = append(dockerArgs, "--env", fmt.Sprintf("%s=%s", name, value))
		}
		dockerArgs = append(dockerArgs, s.image, "sh", "-c", command)
		return "docker", dockerArgs, nil
	}

	if !s.shell {
		words, err := shellwords.Parse(command)
		if err != nil {
			return "", nil, errors.Annotatef(err, "run step failed splitting command into argv")
		}
		if len(words) == 0 {
			return "", nil, fmt.Errorf("run step got an empty command")
		}
		return words[0], words[1:], nil
	}

	return "sh", []string{"-c", command}, nil
}

func (s RunStep) runCommand(name string, args []string, context ExecutionContext) (string, error) {
	ctx := log.WithFields(log.Fields{"cmd": append([]string{name}, args...)})

	ctx.Debug("run step started")

	cmd := exec.CommandContext(context.Context(), name, args...)

	if context.Dir != "" && s.image == "" {
		cmd.Dir = context.Dir
	}

	mergedEnv := envutil.ParseEnviron()

	for name, value := range context.Env {
		mergedEnv[name] = value
	}

	if context.Autoenv() {
		autoEnv, err := context.GenerateAutoenv()
		if err != nil {
			log.Errorf("run step failed to generate autoenv: %v", err)
		}
		for name, value := range autoEnv {
			mergedEnv[name] = value
		}
	}

	cmdEnv := []string{}
	for name, value := range mergedEnv {
		cmdEnv = append(cmdEnv, fmt.Sprintf("%s=%s", name, value))
	}
	cmd.Env = cmdEnv

	if context.User != "" && s.image == "" {
		cred, err := lookupCredential(context.User)
		if err != nil {
			return "", err
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	}

	output := ""

	if context.Interactive() {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			return "", perrors.Wrap(err, "run step failed starting command")
		}
	} else {
		cmdReader, err := cmd.StdoutPipe()
		if err != nil {
			return "", perrors.Wrap(err, "run step failed creating stdout pipe")
		}

		errReader, err := cmd.StderrPipe()
		if err != nil {
			return "", perrors.Wrap(err, "run step failed creating stderr pipe")
		}

		if err := cmd.Start(); err != nil {
			return "", perrors.Wrap(err, "run step failed starting command")
		}

		channels := struct {
			Stdout chan string
			Stderr chan string
		}{
			Stdout: make(chan string),
			Stderr: make(chan string),
		}

		scanner := bufio.NewScanner(cmdReader)
		go func() {
			defer func() {
				close(channels.Stdout)
			}()
			for scanner.Scan() {
				text := scanner.Text()
				channels.Stdout <- text
				if output != "" {
					output += "\n"
				}
				output += text
			}
		}()

		errScanner := bufio.NewScanner(errReader)
		go func() {
			defer func() {
				close(channels.Stderr)
			}()
			for errScanner.Scan() {
				channels.Stderr <- errScanner.Text()
			}
		}()

		stdoutEnds := false
		stderrEnds := false

		stdoutlog := log.WithFields(log.Fields{"stream": "stdout"})
		stderrlog := log.WithFields(log.Fields{"stream": "stderr"})

		// Coordinating stdout/stderr in this single place to not screw up message ordering
		for {
			select {
			case text, ok := <-channels.Stdout:
				if ok {
					stdoutlog.Info(text)
				} else {
					stdoutEnds = true
				}
			case text, ok := <-channels.Stderr:
				if ok {
					stderrlog.Info(text)
				} else {
					stderrEnds = true
				}
			}
			if stdoutEnds && stderrEnds {
				break
			}
		}
	}

	err := cmd.Wait()

	if err != nil {
		ctx.Errorf("run step failed: %v", err)
		return output, perrors.Wrap(err, "run step failed")
	}

	waitStatus := cmd.ProcessState.Sys().(syscall.WaitStatus)
	ctx.Debugf("run step finished command with status: %d", waitStatus.ExitStatus())

	return strings.Trim(output, "\n "), nil
}

func lookupCredential(username string) (*syscall.Credential, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return nil, &ContextError{Op: "user", Ref: username, Err: err}
	}

	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return nil, &ContextError{Op: "user", Ref: username, Err: err}
	}

	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return nil, &ContextError{Op: "user", Ref: username, Err: err}
	}

	return &syscall.Credential{Uid: uint32(uid), Gid: uint32(gid)}, nil
}
