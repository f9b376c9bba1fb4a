package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/darkenness/airnet/pkg/compile"
	"github.com/darkenness/airnet/pkg/engine"
	"github.com/darkenness/airnet/pkg/export"
	"github.com/darkenness/airnet/pkg/model"
	"github.com/darkenness/airnet/pkg/validation"
)

// loadAndValidate loads the project and runs the pre-compilation pass.
func loadAndValidate(projectPath string) (*model.Project, *validation.Report, error) {
	project, err := model.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	report := validation.ValidateModel(project)
	return project, report, nil
}

func runValidate(projectPath string) error {
	project, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	// The structural pass only means something over a coherent model.
	if report.Valid {
		doc := compile.Compile(project)
		report.Merge(validation.ValidateDocument(doc))
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runCompile(projectPath string) error {
	project, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("model has validation errors")
	}

	doc := compile.Compile(project)
	if structural := validation.ValidateDocument(doc); !structural.Valid {
		printValidationReport(structural)
		return fmt.Errorf("compiled document failed structural validation")
	}

	data, err := doc.Encode()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

func runSimulate(projectPath, binary string) error {
	project, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	doc := compile.Compile(project)
	report.Merge(validation.ValidateDocument(doc))
	printValidationReport(report)
	if !report.Valid {
		return fmt.Errorf("model has validation errors")
	}

	data, err := doc.Encode()
	if err != nil {
		return err
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	runner := engine.NewRunner(log)
	runner.Binary = binary
	result, err := runner.Run(context.Background(), data)
	if err != nil {
		return err
	}

	if result.Transient != nil {
		return export.WriteTransientCSV(os.Stdout, result.Transient)
	}
	return export.WriteSteadyCSV(os.Stdout, result.Steady)
}

func runExport(resultPath string) error {
	data, err := os.ReadFile(resultPath)
	if err != nil {
		return fmt.Errorf("reading result file: %w", err)
	}
	result, err := engine.ParseResult(data)
	if err != nil {
		return err
	}

	if result.Transient != nil {
		return export.WriteTransientCSV(os.Stdout, result.Transient)
	}
	return export.WriteSteadyCSV(os.Stdout, result.Steady)
}
