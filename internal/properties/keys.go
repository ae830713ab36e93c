package properties

// Reserved property keys.
const (
	Modules            = "sonar.modules"
	ProjectBaseDir     = "sonar.projectBaseDir"
	ProjectConfigFile  = "sonar.projectConfigFile"
	ProjectKey         = "sonar.projectKey"
	ProjectDescription = "sonar.projectDescription"
	WorkingDirectory   = "sonar.working.directory"
	Verbose            = "sonar.verbose"
	BootstrapStartTime = "sonar.scanner.bootstrapStartTime"
	App                = "sonar.scanner.app"
	AppVersion         = "sonar.scanner.appVersion"

	ScannerHome     = "scanner.home"
	ScannerSettings = "scanner.settings"
	ProjectHome     = "project.home"
	ProjectSettings = "project.settings"
)

// ProjectSettingsFile is the conventional settings file name of a project or module.
const ProjectSettingsFile = "sonar-project.properties"
