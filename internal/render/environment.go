package render

import (
	"os"
	"runtime"

	"github.com/VamsiKurapati/docrender/internal/hints"
)

// Deployment names reported when no explicit deployment is configured.
const (
	DeploymentServer   = "server"
	DeploymentLambda   = "aws-lambda"
	DeploymentVercel   = "vercel"
	DeploymentCloudRun = "cloud-run"
	DeploymentAzure    = "azure-functions"
	DeploymentNetlify  = "netlify"
)

// Environment describes where the executor runs. It is attached to
// ExhaustedError and reported by the health check.
type Environment struct {
	Deployment string `json:"deployment"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
}

// Serverless reports whether the deployment is an ephemeral function runtime.
func (e Environment) Serverless() bool {
	switch e.Deployment {
	case DeploymentLambda, DeploymentVercel, DeploymentAzure, DeploymentNetlify:
		return true
	}
	return false
}

// DetectEnvironment inspects the host. A non-empty deployment overrides
// detection from platform variables.
func DetectEnvironment(deployment string) Environment {
	return detectEnvironment(deployment, os.Getenv, hints.IsInContainer)
}

var deploymentVars = []struct {
	env, name string
}{
	{"AWS_LAMBDA_FUNCTION_NAME", DeploymentLambda},
	{"VERCEL", DeploymentVercel},
	{"K_SERVICE", DeploymentCloudRun},
	{"FUNCTIONS_WORKER_RUNTIME", DeploymentAzure},
	{"NETLIFY", DeploymentNetlify},
}

func detectEnvironment(deployment string, getenv func(string) string, inContainer func() bool) Environment {
	if deployment == "" {
		deployment = DeploymentServer
		for _, v := range deploymentVars {
			if getenv(v.env) != "" {
				deployment = v.name
				break
			}
		}
	}
	return Environment{
		Deployment: deployment,
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Container:  inContainer(),
		CI:         hints.InCI(getenv),
	}
}
