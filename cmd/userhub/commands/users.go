package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/userhub-io/userhub-client/internal/constants"
	"github.com/userhub-io/userhub-client/internal/listview"
	"github.com/userhub-io/userhub-client/internal/util"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Manage directory users",
		Long:    "List, search, create, update, and delete users in the directory",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersSearchCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersUpdateCommand())
	cmd.AddCommand(newUsersActivateCommand())
	cmd.AddCommand(newUsersDeactivateCommand())
	cmd.AddCommand(newUsersDeleteCommand())
	cmd.AddCommand(newUsersBulkUpdateCommand())
	cmd.AddCommand(newUsersStatsCommand())

	return cmd
}

// listFlags carries the shared listing flags for list and search.
type listFlags struct {
	page      int
	limit     int
	sortBy    string
	sortOrder string
	active    string
	role      string
	from      string
	to        string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", userhub.DefaultPage, "page number")
	cmd.Flags().IntVar(&f.limit, "limit", userhub.DefaultLimit, "results per page")
	cmd.Flags().StringVar(&f.sortBy, "sort-by", userhub.DefaultSortBy, "sort field")
	cmd.Flags().StringVar(&f.sortOrder, "sort-order", string(userhub.DefaultSortOrder), "sort order (asc, desc)")
	cmd.Flags().StringVar(&f.active, "active", "", "filter by active state (true, false)")
	cmd.Flags().StringVar(&f.role, "role", "", "filter by role")
	cmd.Flags().StringVar(&f.from, "created-from", "", "filter by creation date lower bound")
	cmd.Flags().StringVar(&f.to, "created-to", "", "filter by creation date upper bound")
}

func (f *listFlags) toOptions() (*userhub.ListOptions, error) {
	opts := userhub.NewListOptions().
		WithPage(f.page).
		WithLimit(f.limit).
		WithSort(f.sortBy, userhub.SortOrder(f.sortOrder))

	if f.active != "" {
		active, err := strconv.ParseBool(f.active)
		if err != nil {
			return nil, fmt.Errorf("parsing --active: %w", err)
		}

		opts.WithActive(active)
	}

	if f.role != "" {
		opts.WithRole(f.role)
	}

	if f.from != "" || f.to != "" {
		var from, to time.Time

		var err error

		if f.from != "" {
			from, err = parseDateArg(f.from)
			if err != nil {
				return nil, err
			}
		}

		if f.to != "" {
			to, err = parseDateArg(f.to)
			if err != nil {
				return nil, err
			}
		}

		opts.WithCreatedBetween(from, to)
	}

	return opts, nil
}

func newUsersListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List users in the directory with paging, sorting, and filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions()
			if err != nil {
				return err
			}

			return runUsersListing(cmd.Context(), opts, "")
		},
	}

	flags.register(cmd)

	return cmd
}

func newUsersSearchCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search users",
		Long:  "Search users by username, email, or full name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions()
			if err != nil {
				return err
			}

			return runUsersListing(cmd.Context(), opts, args[0])
		},
	}

	flags.register(cmd)

	return cmd
}

// runUsersListing drives a page fetch through the list view so the CLI and
// any embedding UI share the same loading semantics.
func runUsersListing(ctx context.Context, opts *userhub.ListOptions, query string) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	view := listview.New(client.Users())
	view.ReplaceOptions(opts)

	if query != "" {
		view.SetSearch(ctx, query)
	} else {
		view.Load(ctx)
	}

	if view.State() == listview.StateError {
		return fmt.Errorf("%w: %s", constants.ErrRequestFailed, view.ErrorMessage())
	}

	users := view.Records()

	if rendered, err := renderStructured(users); rendered {
		return err
	}

	if len(users) == 0 {
		_, _ = os.Stdout.WriteString("No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Username", "Email", "Full Name", "Status", "Created")

	for _, user := range users {
		_ = table.Append(user.ID, user.Username, util.Truncate(user.Email, 40),
			util.Truncate(user.FullName, 30), formatActive(user.Active),
			util.FormatDate(user.CreatedAt))
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	printListingFooter(view)

	return nil
}

func printListingFooter(view *listview.ListView) {
	page := view.Options().Page

	if total := view.Total(); total != nil {
		_, _ = fmt.Fprintf(os.Stdout, "Page %d (%d users total)\n", page, *total)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "Page %d\n", page)
	}

	if view.HasNextPage() {
		_, _ = fmt.Fprintf(os.Stdout, "More results available: re-run with --page %d\n", page+1)
	}
}

func newUsersGetCommand() *cobra.Command {
	var includeRelated bool

	cmd := &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Long:  "Get detailed information about a specific user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := unwrapEnvelope(client.Users().Get(cmd.Context(), args[0], includeRelated))
			if err != nil {
				return err
			}

			return renderUserDetail(user)
		},
	}

	cmd.Flags().BoolVar(&includeRelated, "include-related", false, "include related resources")

	return cmd
}

func renderUserDetail(user *userhub.User) error {
	if rendered, err := renderStructured(user); rendered {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("ID", user.ID)
	_ = table.Append("Username", user.Username)
	_ = table.Append("Email", user.Email)

	fullName := user.FullName
	if fullName == "" {
		fullName = constants.NotAvailable
	}

	_ = table.Append("Full Name", fullName)
	_ = table.Append("Status", formatActive(user.Active))
	_ = table.Append("Avatar", user.AvatarURL)
	_ = table.Append("Created", util.FormatDateTime(user.CreatedAt))
	_ = table.Append("Updated", util.FormatDateTime(user.UpdatedAt))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newUsersCreateCommand() *cobra.Command {
	var (
		username string
		email    string
		password string
		fullName string
		avatar   string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create a new user in the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return constants.ErrUsernameRequired
			}

			if email == "" {
				return constants.ErrEmailRequired
			}

			if password == "" {
				var err error

				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			if avatar == "" {
				avatar = util.DefaultAvatarURL(email)
			}

			request := &userhub.UserCreateRequest{
				Username:  username,
				Email:     email,
				Password:  password,
				FullName:  fullName,
				AvatarURL: avatar,
			}

			if inactive {
				active := false
				request.Active = &active
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := unwrapEnvelope(client.Users().Create(cmd.Context(), request))
			if err != nil {
				return err
			}

			if rendered, err := renderStructured(user); rendered {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully created user '%s' with ID %s\n", user.Username, user.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&fullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL (derived from email when omitted)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the user in an inactive state")

	return cmd
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")

	bytePassword, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Println()

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(bytePassword), nil
}

// updateFromFlags builds an update request from whichever flags changed.
func updateFromFlags(cmd *cobra.Command, username, email, password, fullName, avatar string, active bool) *userhub.UserUpdateRequest {
	update := &userhub.UserUpdateRequest{}

	if cmd.Flags().Changed("username") {
		update.Username = &username
	}

	if cmd.Flags().Changed("email") {
		update.Email = &email
	}

	if cmd.Flags().Changed("password") {
		update.Password = &password
	}

	if cmd.Flags().Changed("full-name") {
		update.FullName = &fullName
	}

	if cmd.Flags().Changed("avatar") {
		update.AvatarURL = &avatar
	}

	if cmd.Flags().Changed("active") {
		update.Active = &active
	}

	return update
}

func newUsersUpdateCommand() *cobra.Command {
	var (
		username string
		email    string
		password string
		fullName string
		avatar   string
		active   bool
	)

	cmd := &cobra.Command{
		Use:   "update USER_ID",
		Short: "Update a user",
		Long:  "Update an existing user's attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := updateFromFlags(cmd, username, email, password, fullName, avatar, active)
			if update.IsEmpty() {
				return constants.ErrNoUpdateFlags
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := unwrapEnvelope(client.Users().Update(cmd.Context(), args[0], update))
			if err != nil {
				return err
			}

			if rendered, err := renderStructured(user); rendered {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully updated user '%s'\n", user.Username)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "new username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "new email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	cmd.Flags().StringVar(&fullName, "full-name", "", "new full name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar URL")
	cmd.Flags().BoolVar(&active, "active", true, "active state")

	return cmd
}

// createActivationCommand builds the activate and deactivate commands, which
// differ only in the target state and success message.
func createActivationCommand(use, short string, activate bool, successMessage string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " USER_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			var envelope *userhub.Envelope[userhub.User]
			if activate {
				envelope = client.Users().Activate(cmd.Context(), args[0])
			} else {
				envelope = client.Users().Deactivate(cmd.Context(), args[0])
			}

			user, err := unwrapEnvelope(envelope)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, successMessage, user.Username)

			return nil
		},
	}
}

func newUsersActivateCommand() *cobra.Command {
	return createActivationCommand("activate", "Activate a user", true,
		"Successfully activated user '%s'\n")
}

func newUsersDeactivateCommand() *cobra.Command {
	return createActivationCommand("deactivate", "Deactivate a user", false,
		"Successfully deactivated user '%s'\n")
}

func newUsersDeleteCommand() *cobra.Command {
	var (
		force   bool
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete a user",
		Long:  "Delete a user from the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]

			if !confirm {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete user '%s'? (y/N): ", userID)

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = unwrapEnvelope(client.Users().Delete(cmd.Context(), userID, force))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully deleted user '%s'\n", userID)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "force deletion even when the user has related records")
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "skip confirmation prompt")

	return cmd
}

func newUsersBulkUpdateCommand() *cobra.Command {
	var (
		ids      string
		username string
		email    string
		password string
		fullName string
		avatar   string
		active   bool
	)

	cmd := &cobra.Command{
		Use:   "bulk-update",
		Short: "Update multiple users at once",
		Long:  "Apply the same update to a set of users in a single call",
		RunE: func(cmd *cobra.Command, args []string) error {
			userIDs := splitIDs(ids)
			if len(userIDs) == 0 {
				return constants.ErrAtLeastOneIDRequired
			}

			update := updateFromFlags(cmd, username, email, password, fullName, avatar, active)
			if update.IsEmpty() {
				return constants.ErrNoUpdateFlags
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := unwrapEnvelope(client.Users().BulkUpdate(cmd.Context(), userIDs, update))
			if err != nil {
				return err
			}

			if rendered, err := renderStructured(result); rendered {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully updated %d users\n", result.Updated)

			return nil
		},
	}

	cmd.Flags().StringVar(&ids, "ids", "", "comma-separated user IDs (required)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "new username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "new email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	cmd.Flags().StringVar(&fullName, "full-name", "", "new full name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar URL")
	cmd.Flags().BoolVar(&active, "active", true, "active state")
	_ = cmd.MarkFlagRequired("ids")

	return cmd
}

func newUsersStatsCommand() *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show user statistics",
		Long:  "Show aggregate statistics for the user directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dateRange *userhub.DateRange

			if from != "" || to != "" {
				dateRange = &userhub.DateRange{}

				if from != "" {
					start, err := parseDateArg(from)
					if err != nil {
						return err
					}

					dateRange.Start = &start
				}

				if to != "" {
					end, err := parseDateArg(to)
					if err != nil {
						return err
					}

					dateRange.End = &end
				}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			stats, err := unwrapEnvelope(client.Users().Stats(cmd.Context(), dateRange))
			if err != nil {
				return err
			}

			if rendered, err := renderStructured(stats); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Metric", "Count")
			_ = table.Append("Total", strconv.Itoa(stats.Total))
			_ = table.Append("Active", strconv.Itoa(stats.Active))
			_ = table.Append("Inactive", strconv.Itoa(stats.Inactive))

			if stats.New > 0 {
				_ = table.Append("New", strconv.Itoa(stats.New))
			}

			err = table.Render()
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "window start (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "window end (YYYY-MM-DD or RFC3339)")

	return cmd
}
