package render

import (
	"runtime"
	"testing"
)

func TestDetectEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		deployment string
		env        map[string]string
		container  bool
		want       Environment
	}{
		{
			name: "plain server",
			env:  map[string]string{},
			want: Environment{Deployment: DeploymentServer},
		},
		{
			name: "lambda",
			env:  map[string]string{"AWS_LAMBDA_FUNCTION_NAME": "render"},
			want: Environment{Deployment: DeploymentLambda},
		},
		{
			name:      "cloud run in container",
			env:       map[string]string{"K_SERVICE": "svc"},
			container: true,
			want:      Environment{Deployment: DeploymentCloudRun, Container: true},
		},
		{
			name:       "explicit deployment wins",
			deployment: "on-prem",
			env:        map[string]string{"VERCEL": "1", "CI": "true"},
			want:       Environment{Deployment: "on-prem", CI: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			getenv := func(k string) string { return tt.env[k] }
			got := detectEnvironment(tt.deployment, getenv, func() bool { return tt.container })

			want := tt.want
			want.OS, want.Arch = runtime.GOOS, runtime.GOARCH
			if got != want {
				t.Errorf("detectEnvironment() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestEnvironment_Serverless(t *testing.T) {
	t.Parallel()

	for dep, want := range map[string]bool{
		DeploymentLambda:   true,
		DeploymentVercel:   true,
		DeploymentNetlify:  true,
		DeploymentAzure:    true,
		DeploymentCloudRun: false,
		DeploymentServer:   false,
	} {
		if got := (Environment{Deployment: dep}).Serverless(); got != want {
			t.Errorf("Serverless(%q) = %v, want %v", dep, got, want)
		}
	}
}
