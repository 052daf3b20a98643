package config

// Runfile represents the structure of the runq.yaml script file.
type Runfile struct {
	Version string            `yaml:"version"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
	Steps   []StepDTO         `yaml:"steps"`
}

// StepDTO represents one step definition in the script.
type StepDTO struct {
	Exec   []string          `yaml:"exec"`
	Dir    string            `yaml:"dir"`
	Env    map[string]string `yaml:"env"`
	Chdir  *string           `yaml:"chdir"`
	Echo   *string           `yaml:"echo"`
	Sleep  string            `yaml:"sleep"`
	Expect *ExpectDTO        `yaml:"expect"`
}

// ExpectDTO represents an assertion on the previous process step.
type ExpectDTO struct {
	Exit   *int   `yaml:"exit"`
	Stdout string `yaml:"stdout"`
}
