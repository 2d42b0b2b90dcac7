package main

import (
	"github.com/spf13/cobra"
)

var appVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "xcrel",
	Short: "xcrel - Version, archive, publish and localize an Xcode app",
	Long: `xcrel is a command line tool for shipping an Apple-platform app.

It bumps the version numbers stored in the Xcode project, archives and
uploads builds to App Store Connect with xcodebuild and altool, and keeps
String Catalog translations in sync with a seed catalog.`,
	Version:           appVersion,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var shipCmd = &cobra.Command{
	Use:   "ship [platform...]",
	Short: "Archive and publish the app",
	Long: `Archive the app for one or more platforms and publish the archives to
App Store Connect. Steps run one at a time and stop at the first failure.

Publishing reads the API key identifiers from XCODE_API_KEY and XCODE_API_ISSUER.

Examples:
	xcrel ship --archive iOS macOS
	xcrel ship --bump --archive --publish --platform iOS,tvOS
	xcrel ship --archive --publish --github-actions visionOS`,
	Args: cobra.ArbitraryArgs,
	RunE: runShip,
}

var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Bump MARKETING_VERSION and CURRENT_PROJECT_VERSION",
	Long: `Derive the next marketing and build versions and rewrite them in the
project's project.pbxproj.

The marketing version follows version.marketing_policy in .xcrel.yaml:
  tag         the latest git tag without its leading "v" (default)
  bump-minor  MAJOR.MINOR+1

The build version is YYYYMMDD.<commit count><short hash as decimal>.<patch>,
where patch counts repeated bumps of the same commit on the same day.`,
	Args: cobra.NoArgs,
	RunE: runBump,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .xcrel.yaml",
	Long: `Write a .xcrel.yaml with the default settings to the project root, or to
the path given with --config. An existing file is kept unless --force is set.

Example:
	xcrel init --project Remote.xcodeproj`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var localizeCmd = &cobra.Command{
	Use:   "localize",
	Short: "Reconcile String Catalog translations",
	Long:  "Merge per-language translation files into a seed catalog and report untranslated strings.",
}

var localizeMergeCmd = &cobra.Command{
	Use:   "merge [dir] [seed] [output]",
	Short: "Merge per-language files into the seed catalog",
	Long: `Merge every per-language JSON file in dir ({"key": "translation"}) into the
seed catalog and write the result to output. The language is the file name
before the first dot. Keys the seed does not define are ignored.

Example:
	xcrel localize merge translations Localizable.json Roam/Localizable.xcstrings`,
	Args: cobra.ExactArgs(3),
	RunE: runLocalizeMerge,
}

var localizeReportCmd = &cobra.Command{
	Use:   "report [seed] [output]",
	Short: "List strings with missing translations",
	Long: `Write {"key": "comment"} for every string in the seed catalog that has
fewer localizations than the reference string (a single space by default).

Example:
	xcrel localize report Roam/Localizable.xcstrings incomplete.json`,
	Args: cobra.ExactArgs(2),
	RunE: runLocalizeReport,
}

func init() {
	rootCmd.AddCommand(shipCmd)
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(localizeCmd)

	localizeCmd.AddCommand(localizeMergeCmd)
	localizeCmd.AddCommand(localizeReportCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "Project root")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <dir>/.xcrel.yaml)")

	shipCmd.Flags().BoolVar(&shipOpts.archive, "archive", false, "Build and archive the application")
	shipCmd.Flags().BoolVar(&shipOpts.publish, "publish", false, "Publish the application to App Store Connect")
	shipCmd.Flags().BoolVar(&shipOpts.bump, "bump", false, "Bump versions before archiving")
	shipCmd.Flags().VarP(&shipOpts.platforms, "platform", "p", "Platforms to build and publish (repeatable, comma separated)")
	shipCmd.Flags().BoolVar(&shipOpts.githubActions, "github-actions", false, "Render xcodebuild output for GitHub Actions")
	shipCmd.Flags().BoolVar(&shipOpts.dryRun, "dry-run", false, "Print commands instead of running them")

	bumpCmd.Flags().BoolVar(&bumpOpts.dryRun, "dry-run", false, "Show the new versions without writing them")

	initCmd.Flags().StringVar(&initOpts.project, "project", "", "Xcode project; scheme and product default to its name")
	initCmd.Flags().BoolVar(&initOpts.force, "force", false, "Overwrite an existing config")

	localizeMergeCmd.Flags().StringVar(&localizeOpts.pattern, "pattern", "", "Glob selecting language files (default from config, *.json)")
	localizeReportCmd.Flags().StringVar(&localizeOpts.referenceKey, "reference-key", "", `String whose translations define completeness (default from config, " ")`)
}
