package main

import (
	"context"
	"fmt"

	"github.com/edusight/edusight/core/prediction"
)

// trainModel fits the performance model on the feedback collected so far and
// writes the artifact where the API loads it from on startup.
func (cli *commandLine) trainModel() error {
	rows, err := cli.predRepo.QueryTrainingRows(context.Background())
	if err != nil {
		return err
	}

	artifact, report, err := prediction.Train(rows)
	if err != nil {
		return err
	}
	if err := artifact.Save(cli.conf.Model.ArtifactPath); err != nil {
		return err
	}

	fmt.Printf("model trained on %d samples (MAE %.2f, R2 %.2f)\n", report.Samples, report.MAE, report.R2)
	fmt.Printf("artifact saved to %s\n", cli.conf.Model.ArtifactPath)
	return nil
}
