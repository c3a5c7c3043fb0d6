package suppress

// DefaultRootNamespace is the application namespace of a stock Laravel
// project. WithRootNamespace moves rules to a renamed one.
const DefaultRootNamespace = "App"

// DefaultRules returns the built-in rules for stock Laravel applications.
// Each call returns a fresh copy.
func DefaultRules() RuleSet {
	return RuleSet{
		Separator: DefaultSeparator,
		ByClass: Table{
			"UnusedClass": {
				`App\Console\Kernel`,
				`App\Exceptions\Handler`,
				`App\Http\Controllers\Controller`,
				`App\Http\Kernel`,
				`App\Http\Middleware\Authenticate`,
				`App\Http\Middleware\TrustHosts`,
				`App\Providers\AppServiceProvider`,
				`App\Providers\AuthServiceProvider`,
				`App\Providers\BroadcastServiceProvider`,
				`App\Providers\EventServiceProvider`,
			},
		},
		ByClassMethod: NestedTable{
			"PossiblyUnusedMethod": {
				`App\Http\Middleware\RedirectIfAuthenticated`: {"handle"},
			},
		},
		ByNamespace: Table{
			"PropertyNotSetInConstructor": {
				`App\Jobs`,
			},
			"PossiblyUnusedMethod": {
				`App\Events`,
				`App\Jobs`,
			},
		},
		ByNamespaceMethod: NestedTable{
			"PossiblyUnusedMethod": {
				`App\Events`:        {"broadcastOn"},
				`App\Jobs`:          {"handle"},
				`App\Mail`:          {"__construct", "build"},
				`App\Notifications`: {"__construct", "via", "toMail", "toArray"},
			},
		},
		ByParentClass: Table{
			"PropertyNotSetInConstructor": {
				`Illuminate\Console\Command`,
				`Illuminate\Foundation\Http\FormRequest`,
				`Illuminate\Mail\Mailable`,
				`Illuminate\Notifications\Notification`,
			},
		},
		ByParentClassProperty: NestedTable{
			"NonInvariantDocblockPropertyType": {
				`Illuminate\Console\Command`: {"description"},
			},
		},
		ByUsedTraits: Table{
			"PropertyNotSetInConstructor": {
				`Illuminate\Queue\InteractsWithQueue`,
			},
		},
	}
}
