package graphics

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownUniform   = errors.New("unknown uniform")
	ErrProgramNotLinked = errors.New("shader program not linked")
	ErrNotRealized      = errors.New("mesh not realized")
)

// ShaderCompileError reports a stage that failed to compile
type ShaderCompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// ShaderLinkError reports a program that failed to link
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// DeviceResourceError reports a failed device allocation
type DeviceResourceError struct {
	Op  string
	Err error
}

func (e *DeviceResourceError) Error() string {
	return fmt.Sprintf("device resource %s: %v", e.Op, e.Err)
}

func (e *DeviceResourceError) Unwrap() error {
	return e.Err
}
