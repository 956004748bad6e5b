//
// libfi is the client of the FindIt lost and found backend.
// It fetches, filters and publishes lost and found items and reports every
// operation as a stream of Resource (Loading, then Success or Error).
//

// Create client
//
//	client, err := libfi.NewDefaultClient("https://findit.nas.lan")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Authenticate
//
//	auth := libfi.NewAuthRepository(client, client)
//	signin := libfi.Last(auth.SignIn(ctx, "george.abitbol@nas.lan", "12345678"))
//	if signin.IsError() {
//		log.Fatal(signin.Message())
//	}
//	session := signin.Data()
//
// Browse the feed
//
//	repository := libfi.NewItemRepository(client, session)
//	feed := libfi.NewFeed(repository)
//
//	lost, unsubscribe := feed.Lane(libfi.StatusLost).Subscribe()
//	defer unsubscribe()
//
//	<-feed.FetchItems(ctx) // Both lanes are now settled.
//
//	category := "wallet"
//	feed.ApplyFilters(&category, nil, nil)
//
//	view := feed.View(libfi.StatusLost, "black", time.Now())
//	if view.IsSuccess() {
//		for _, item := range view.Data() {
//			fmt.Println(item.Title, "-", item.LastSeenLocation.Address)
//		}
//	}
//
// Claim an item
//
//	claim := libfi.Last(repository.ClaimItem(ctx, item))
//	if claim.IsError() {
//		log.Fatal(claim.Message())
//	}
//	fmt.Println("Claimed!")
package libfi
